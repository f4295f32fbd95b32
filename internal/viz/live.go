package viz

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/metrics"
	"github.com/san-kum/trisolaris/internal/oracle"
	"github.com/san-kum/trisolaris/internal/scenario"
	"github.com/san-kum/trisolaris/internal/sim"
	"github.com/san-kum/trisolaris/internal/view"
)

const (
	panelWidth     = 44
	hudRows        = 2
	graphSamples   = 240
	wheelDelta     = 100
	oracleTimeout  = 30 * time.Second
	stabilityBound = 5000
	gifPath        = "trisolaris.gif"
)

type TickMsg time.Time

type oracleMsg oracle.Reading

// Model drives the engine from a Bubble Tea tick and renders the sky, the
// camera readout and a side panel.
type Model struct {
	engine    *sim.Engine
	oracle    *oracle.Oracle
	keys      *view.HeldKeys
	distance  *metrics.PlanetDistance
	drift     *metrics.EnergyDrift
	stability *metrics.Stability
	canvas    *Canvas
	recorder  *Recorder
	interval  time.Duration

	width, height int
	reading       *oracle.Reading
	consulting    bool
	showHelp      bool
	frame         int
	notice        string
	log           *slog.Logger
}

// NewModel wires the panel metrics into engine. orc may be nil, which
// disables the oracle key.
func NewModel(engine *sim.Engine, orc *oracle.Oracle) Model {
	cfg := engine.Config()
	m := Model{
		engine:    engine,
		oracle:    orc,
		keys:      &view.HeldKeys{},
		distance:  metrics.NewPlanetDistance(),
		drift:     metrics.NewEnergyDrift(cfg.G, cfg.Softening),
		stability: metrics.NewStability(stabilityBound),
		interval:  time.Second / time.Duration(cfg.FPS),
		log:       slog.With("component", "tui"),
	}
	engine.AddMetric(m.distance)
	engine.AddMetric(m.drift)
	engine.AddMetric(m.stability)

	w, h := engine.Size()
	m.canvas = NewCanvas(int(w/(2*PixelsPerDot)), int(h/(4*PixelsPerDot)))
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case oracleMsg:
		r := oracle.Reading(msg)
		m.reading = &r
		m.consulting = false
	case TickMsg:
		now := time.Time(msg)
		m.engine.Tick(now, m.keys.Keys(now))
		m.frame++
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg, now time.Time) (Model, tea.Cmd) {
	key := msg.String()
	if k, ok := view.KeyFor(key); ok {
		m.keys.Press(k, now)
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		m.stopRecording()
		return m, tea.Quit
	case " ":
		m.engine.Toggle()
	case "r":
		m.engine.Reset(m.engine.Preset())
		m.reading = nil
	case "1", "2", "3", "4":
		m.engine.Reset(scenario.All()[int(key[0]-'1')])
		m.reading = nil
	case "+", "=":
		m.engine.SetG(round1(m.engine.G() + 0.1))
	case "-", "_":
		m.engine.SetG(round1(m.engine.G() - 0.1))
	case "]":
		m.engine.SetTimeScale(round1(m.engine.TimeScale() + 0.1))
	case "[":
		m.engine.SetTimeScale(round1(m.engine.TimeScale() - 0.1))
	case "0":
		m.engine.Camera().Reset()
	case "o":
		return m, m.consult()
	case "t":
		NextTheme()
	case "g":
		if m.recorder != nil {
			m.stopRecording()
		} else {
			m.recorder = NewRecorder()
			m.notice = ""
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	cam := m.engine.Camera()
	p := m.cellToScreen(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		cam.ZoomBy(-wheelDelta)
	case msg.Button == tea.MouseButtonWheelDown:
		cam.ZoomBy(wheelDelta)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonMiddle:
		// terminals report no double click; middle press stands in for it
		cam.Reset()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		cam.BeginDrag(p)
	case msg.Action == tea.MouseActionMotion:
		cam.Drag(p)
	case msg.Action == tea.MouseActionRelease:
		cam.EndDrag()
	}
}

// cellToScreen maps a terminal cell to viewport pixels. The canvas starts
// one column in, below the HUD rows.
func (m *Model) cellToScreen(col, row int) dynamo.Vec2 {
	return dynamo.Vec2{
		X: float64((col-1)*2)*PixelsPerDot + PixelsPerDot,
		Y: float64((row-hudRows)*4)*PixelsPerDot + 2*PixelsPerDot,
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	cols := width - panelWidth - 3
	rows := height - hudRows - 1
	if cols < 10 || rows < 5 {
		return
	}
	m.canvas = NewCanvas(cols, rows)
	m.engine.Resize(float64(cols*2)*PixelsPerDot, float64(rows*4)*PixelsPerDot)
}

// consult asks the oracle about the last published snapshot. The request
// owns its copy, so a reset while it runs cannot reach it.
func (m *Model) consult() tea.Cmd {
	if m.oracle == nil || m.consulting {
		return nil
	}
	m.consulting = true
	snapshot := m.engine.Snapshot()
	orc := m.oracle
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), oracleTimeout)
		defer cancel()
		return oracleMsg(orc.Consult(ctx, snapshot))
	}
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	frames := m.recorder.Len()
	if err := m.recorder.Save(gifPath); err != nil {
		m.log.Error("save recording", "error", err)
		m.notice = "recording failed"
	} else if frames > 0 {
		m.log.Info("saved recording", "path", gifPath, "frames", frames)
		m.notice = fmt.Sprintf("saved %s (%d frames)", gifPath, frames)
	}
	m.recorder = nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.engine.Size()
	stars := view.Starfield(view.StarCount, w, h, m.engine.Camera().Yaw)
	Rasterize(m.canvas, stars, m.engine.Frame(), CurrentTheme)
}

// View renders the TUI interface.
func (m Model) View() string {
	hud := view.HUD(*m.engine.Camera(), m.engine.FPS())
	hudStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	sky := hudStyle.Render(" "+hud[0]) + "\n" + hudStyle.Render(" "+hud[1]) + "\n" +
		canvasStyle.Render(strings.TrimRight(m.canvas.String(), "\n"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, sky, panelStyle.Render(m.panel()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m Model) panel() string {
	var s strings.Builder
	theme := CurrentTheme

	s.WriteString(GradientText("TRISOLARIS", theme.Primary, theme.Secondary) + "\n")
	status := StatusPaused.Render("PAUSED")
	if m.engine.Running() {
		status = StatusRunning.Render("RUNNING")
	}
	if m.recorder != nil {
		status += "  " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Preset", string(m.engine.Preset()))
	row("G", fmt.Sprintf("%.1f", m.engine.G()))
	row("Time scale", fmt.Sprintf("%.1fx", m.engine.TimeScale()))
	row("Steps", fmt.Sprintf("%d", m.engine.Steps()))
	row("Distance", fmt.Sprintf("%.0f", m.distance.Value()))
	row("Energy", fmt.Sprintf("%.2f%% drift", m.drift.Value()*100))
	s.WriteString(labelStyle.Render("") + Sparkline(m.drift.History(), panelWidth-16, theme.Accent) + "\n")
	s.WriteString(labelStyle.Render("Stability") + ProgressBar(m.stability.Value(), 20) + "\n")

	if hist := m.distance.History(); len(hist) > 1 {
		if len(hist) > graphSamples {
			hist = hist[len(hist)-graphSamples:]
		}
		chart := asciigraph.Plot(hist, asciigraph.Height(5), asciigraph.Width(panelWidth-12), asciigraph.Caption("Planet distance"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n" + Separator(panelWidth-4) + "\n")
	s.WriteString(m.oracleView())

	if m.notice != "" {
		s.WriteString("\n" + Subtle.Render(m.notice) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Run R:Reset 1-4:Preset Q:Quit\n+/-:G  [/]:Speed  O:Oracle\nWASD:Rotate 0:View G:Rec ?:Help"))
	return s.String()
}

func (m Model) oracleView() string {
	theme := CurrentTheme
	wrap := lipgloss.NewStyle().Width(panelWidth - 4).Foreground(theme.Text)

	switch {
	case m.consulting:
		return AnimatedSpinner(m.frame) + " consulting the oracle...\n"
	case m.reading == nil:
		return KeyHint.Render("press o to consult the oracle") + "\n"
	}

	eraColor := theme.Chaotic
	if m.reading.Era == oracle.StableEra {
		eraColor = theme.Stable
	}
	era := lipgloss.NewStyle().Bold(true).Foreground(eraColor).Render(strings.ToUpper(m.reading.Era))
	rec := lipgloss.NewStyle().Foreground(theme.Primary).Render("» " + m.reading.Recommendation)
	return era + "\n" + wrap.Render(m.reading.Description) + "\n" + rec + "\n"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Run/Pause simulation     ║
║  R        - Reset current preset     ║
║  1-4      - Select preset            ║
║  + / -    - Gravity ±0.1             ║
║  ] / [    - Time scale ±0.1          ║
║  WASD     - Rotate and tilt view     ║
║  Mouse    - Drag to pan, wheel zoom  ║
║  0 / MMB  - Reset view               ║
║  O        - Consult the oracle       ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// RunLive starts the sky view directly on engine.
func RunLive(engine *sim.Engine, orc *oracle.Oracle) error {
	_, err := tea.NewProgram(NewModel(engine, orc), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
