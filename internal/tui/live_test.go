package tui

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

func frameRows(out string) []string {
	frames := strings.Split(out, clearScreen)
	last := frames[len(frames)-1]
	lines := strings.Split(last, "\n")
	return lines[2 : 2+height]
}

func TestLiveRendererDrawsBodies(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "figure8", 700, 200, 0)

	bodies := dynamo.Bodies{
		{ID: "sun1", Position: dynamo.Vec2{X: 100, Y: 50}, Trail: dynamo.Trail{{X: 10, Y: 50}, {X: 60, Y: 50}}},
		{ID: "sun2", Position: dynamo.Vec2{X: 600, Y: 150}},
		{ID: "trisolaris", Position: dynamo.Vec2{X: 350, Y: 100}, IsPlanet: true},
	}
	r.OnSnapshot(bodies)

	rows := frameRows(buf.String())
	if got := rows[5][2+10]; got != '1' {
		t.Errorf("sun1 cell = %q", got)
	}
	if got := rows[15][2+60]; got != '2' {
		t.Errorf("sun2 cell = %q", got)
	}
	if got := rows[10][2+35]; got != 'o' {
		t.Errorf("planet cell = %q", got)
	}
	if got := rows[5][2+3]; got != '.' {
		t.Errorf("trail cell = %q", got)
	}
	if !strings.Contains(buf.String(), "dist=") {
		t.Error("expected planet status line")
	}
}

func TestLiveRendererThrottles(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "x", 100, 100, 2)
	now := time.Unix(0, 0)
	r.now = func() time.Time { return now }

	r.OnSnapshot(nil)
	now = now.Add(100 * time.Millisecond)
	r.OnSnapshot(nil)
	if r.Frames() != 1 {
		t.Errorf("expected throttled frame, got %d frames", r.Frames())
	}
	now = now.Add(500 * time.Millisecond)
	r.OnSnapshot(nil)
	if r.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", r.Frames())
	}
}

func TestLiveRendererSkipsNonFinite(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, "x", 100, 100, 0)
	r.OnSnapshot(dynamo.Bodies{{ID: "sun1", Position: dynamo.Vec2{X: math.NaN(), Y: 1}}})

	if !strings.Contains(buf.String(), "[non-finite]") || !strings.Contains(buf.String(), "planet lost") {
		t.Errorf("unexpected status: %q", buf.String())
	}
}
