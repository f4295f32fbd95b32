package sim

import (
	"github.com/san-kum/trisolaris/internal/dynamo"
)

// Metric accumulates a scalar over the body sets produced by each step.
type Metric interface {
	Name() string
	Observe(bodies dynamo.Bodies)
	Value() float64
	Reset()
}

// Observer receives published snapshots. Each observer gets its own copy.
type Observer interface {
	OnSnapshot(bodies dynamo.Bodies)
}

type ObserverFunc func(bodies dynamo.Bodies)

func (f ObserverFunc) OnSnapshot(bodies dynamo.Bodies) { f(bodies) }

// gCoupled is implemented by metrics whose value depends on G.
type gCoupled interface {
	SetG(g float64)
}

type Result struct {
	Preset  string
	Seed    int64
	Steps   int
	Final   dynamo.Bodies
	Metrics map[string]float64
	Errors  []error
}
