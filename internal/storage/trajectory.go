package storage

import (
	"github.com/san-kum/trisolaris/internal/dynamo"
)

type Sample struct {
	Step      int           `json:"step"`
	Positions []dynamo.Vec2 `json:"positions"`
}

// Trajectory records body positions every Stride steps. It satisfies
// sim.Metric so an engine can feed it directly; its value is the number of
// samples kept.
type Trajectory struct {
	Stride  int      `json:"stride"`
	IDs     []string `json:"ids"`
	Samples []Sample `json:"samples"`

	step int
}

func NewTrajectory(stride int) *Trajectory {
	if stride < 1 {
		stride = 1
	}
	return &Trajectory{Stride: stride}
}

func (t *Trajectory) Name() string { return "samples" }

func (t *Trajectory) Observe(bodies dynamo.Bodies) {
	t.step++
	if t.IDs == nil {
		t.IDs = make([]string, len(bodies))
		for i, b := range bodies {
			t.IDs[i] = b.ID
		}
	}
	if t.step%t.Stride != 0 {
		return
	}
	pos := make([]dynamo.Vec2, len(bodies))
	for i, b := range bodies {
		pos[i] = b.Position
	}
	t.Samples = append(t.Samples, Sample{Step: t.step, Positions: pos})
}

func (t *Trajectory) Value() float64 { return float64(len(t.Samples)) }

func (t *Trajectory) Reset() {
	t.step = 0
	t.IDs = nil
	t.Samples = nil
}

// Track returns the recorded positions of one body, oldest first.
func (t *Trajectory) Track(id string) []dynamo.Vec2 {
	idx := -1
	for i, v := range t.IDs {
		if v == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]dynamo.Vec2, 0, len(t.Samples))
	for _, s := range t.Samples {
		if idx < len(s.Positions) {
			out = append(out, s.Positions[idx])
		}
	}
	return out
}
