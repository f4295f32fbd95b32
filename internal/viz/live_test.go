package viz

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/trisolaris/internal/config"
	"github.com/san-kum/trisolaris/internal/oracle"
	"github.com/san-kum/trisolaris/internal/physics"
	"github.com/san-kum/trisolaris/internal/scenario"
	"github.com/san-kum/trisolaris/internal/sim"
)

func newTestModel(t *testing.T, orc *oracle.Oracle) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 1
	engine, err := sim.NewEngine(cfg, sim.WithSampler(physics.Always))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return NewModel(engine, orc)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelControls(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(m, " ")
	if !m.engine.Running() {
		t.Fatal("expected space to start the run")
	}

	m = press(m, "+")
	m = press(m, "+")
	if got := m.engine.G(); got != 1.7 {
		t.Errorf("G = %v, want 1.7", got)
	}

	m = press(m, "]")
	if got := m.engine.TimeScale(); got != 1.1 {
		t.Errorf("time scale = %v, want 1.1", got)
	}

	m = press(m, "3")
	if m.engine.Preset() != scenario.Hierarchical {
		t.Errorf("preset = %s, want Hierarchical", m.engine.Preset())
	}
	if m.engine.Running() {
		t.Error("expected reset to stop the run")
	}
}

func TestModelTickAdvancesAndRotates(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, " ")
	m = press(m, "left")

	now := time.Now()
	next, cmd := m.Update(TickMsg(now))
	m = next.(Model)

	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
	if m.engine.Steps() != 1 {
		t.Errorf("steps = %d, want 1", m.engine.Steps())
	}
	if m.engine.Camera().Yaw <= 0 {
		t.Error("expected held left key to rotate the view")
	}
	if m.distance.Value() == 0 {
		t.Error("expected planet distance observed")
	}

	yaw := m.engine.Camera().Yaw
	next, _ = m.Update(TickMsg(now.Add(time.Second)))
	m = next.(Model)
	if m.engine.Camera().Yaw != yaw {
		t.Error("expected key to expire after the hold window")
	}
}

func TestModelOracleRoundTrip(t *testing.T) {
	reply := `{"era":"Stable Era","description":"Calm skies.","recommendation":"Rehydrate"}`
	gen := oracle.GeneratorFunc(func(context.Context, string) (string, error) { return reply, nil })
	m := newTestModel(t, oracle.New(gen, 100, nil))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	m = next.(Model)
	if cmd == nil || !m.consulting {
		t.Fatal("expected a consult command")
	}
	if _, again := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")}); again != nil {
		t.Error("expected no second consult while one is running")
	}

	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.consulting || m.reading == nil || m.reading.Era != oracle.StableEra {
		t.Fatalf("unexpected oracle state %+v", m.reading)
	}
	if !strings.Contains(m.View(), "Calm skies.") {
		t.Error("expected reading in the panel")
	}
}

func TestModelMouse(t *testing.T) {
	m := newTestModel(t, nil)
	cam := m.engine.Camera()

	next, _ := m.Update(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)
	next, _ = m.Update(tea.MouseMsg{X: 12, Y: 11, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = next.(Model)
	next, _ = m.Update(tea.MouseMsg{X: 12, Y: 11, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = next.(Model)

	if cam.Pan.X != 2*2*PixelsPerDot || cam.Pan.Y != 4*PixelsPerDot {
		t.Errorf("pan = %+v", cam.Pan)
	}
	if cam.Dragging {
		t.Error("expected drag to end on release")
	}

	next, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	m = next.(Model)
	if cam.Zoom <= 1 {
		t.Errorf("expected wheel up to zoom in, got %v", cam.Zoom)
	}
}

func TestModelMiddleClickResetsView(t *testing.T) {
	m := newTestModel(t, nil)
	cam := m.engine.Camera()
	cam.ZoomBy(-500)
	cam.Yaw = 1
	cam.Pan.X = 40

	next, _ := m.Update(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonMiddle})
	m = next.(Model)

	if cam.Zoom != 1 || cam.Yaw != 0 || cam.Pan.X != 0 {
		t.Errorf("expected middle press to reset the view, got zoom=%v yaw=%v pan=%+v", cam.Zoom, cam.Yaw, cam.Pan)
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 45})
	m = next.(Model)

	cols := 160 - panelWidth - 3
	if m.canvas.Width != cols || m.canvas.Height != 45-hudRows-1 {
		t.Errorf("canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}
	w, h := m.engine.Size()
	if w != float64(cols*2)*PixelsPerDot || h != float64(m.canvas.Height*4)*PixelsPerDot {
		t.Errorf("viewport = %vx%v", w, h)
	}
}

func TestModelViewShowsHUD(t *testing.T) {
	m := newTestModel(t, nil)
	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)

	out := m.View()
	for _, want := range []string{"Zoom: 1.00x", "TRISOLARIS", "Stable Figure-8", "press o"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestInteractiveStart(t *testing.T) {
	app := NewInteractiveApp(config.DefaultConfig(), nil, nil)

	var next tea.Model = *app
	step := func(msg tea.Msg) {
		next, _ = next.Update(msg)
	}
	step(tea.KeyMsg{Type: tea.KeyDown})
	step(tea.KeyMsg{Type: tea.KeyEnter})
	step(tea.KeyMsg{Type: tea.KeyRight})
	step(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})

	m := next.(model)
	if m.state != stateSim {
		t.Fatalf("state = %d, want sim", m.state)
	}
	if m.liveModel.engine.Preset() != scenario.ChaoticRandom {
		t.Errorf("preset = %s", m.liveModel.engine.Preset())
	}
	if m.liveModel.engine.G() != 1.6 {
		t.Errorf("G = %v, want 1.6", m.liveModel.engine.G())
	}
}
