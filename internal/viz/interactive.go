package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/trisolaris/internal/config"
	"github.com/san-kum/trisolaris/internal/metrics"
	"github.com/san-kum/trisolaris/internal/oracle"
	"github.com/san-kum/trisolaris/internal/scenario"
	"github.com/san-kum/trisolaris/internal/sim"
)

var presetInfo = map[scenario.Preset]string{
	scenario.StableFigure8:   "three suns on a figure eight",
	scenario.ChaoticRandom:   "random suns, random fate",
	scenario.Hierarchical:    "a heavy sun and two satellites",
	scenario.CollisionCourse: "two suns falling together",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type param struct {
	name     string
	value    float64
	min, max float64
}

type model struct {
	state, cursor int
	presets       []scenario.Preset
	selected      scenario.Preset
	params        []param
	paramCursor   int
	editing       bool
	editBuf       string
	width, height int
	err           error

	cfg       *config.Config
	oracle    *oracle.Oracle
	collector *metrics.Collector
	liveModel Model
}

// NewInteractiveApp starts at the preset menu. cfg supplies everything the
// config screen does not edit.
func NewInteractiveApp(cfg *config.Config, orc *oracle.Oracle, collector *metrics.Collector) *model {
	return &model{
		state:     stateMenu,
		presets:   scenario.All(),
		cfg:       cfg,
		oracle:    orc,
		collector: collector,
		params: []param{
			{name: "g", value: cfg.G, min: config.MinG, max: config.MaxG},
			{name: "time_scale", value: cfg.TimeScale, min: config.MinTimeScale, max: config.MaxTimeScale},
		},
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			m.liveModel.resize(msg.Width, msg.Height)
		}
		return m, nil
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.setParam(val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%.1f", m.params[m.paramCursor].value)
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		m.setParam(round1(m.params[m.paramCursor].value - 0.1))
	case "right", "l":
		m.setParam(round1(m.params[m.paramCursor].value + 0.1))
	}
	return m, nil
}

func (m *model) setParam(v float64) {
	p := &m.params[m.paramCursor]
	p.value = config.Clamp(v, p.min, p.max)
}

func (m *model) start() tea.Cmd {
	cfg := *m.cfg
	cfg.Preset = m.selected.Slug()
	cfg.G = m.params[0].value
	cfg.TimeScale = m.params[1].value

	engine, err := sim.NewEngine(&cfg, sim.WithCollector(m.collector))
	if err != nil {
		m.err = err
		return nil
	}
	m.liveModel = NewModel(engine, m.oracle)
	if m.width > 0 {
		m.liveModel.resize(m.width, m.height)
		engine.Reset(m.selected)
	}
	m.state = stateSim
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#38bdf8")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuIdleDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("TRISOLARIS") + "\n    " + menuSub.Render("three suns, one planet") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, p := range m.presets {
		name := fmt.Sprintf("%-18s", string(p))
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(name), menuDesc.Render(presetInfo[p])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render("  "+name), menuIdleDesc.Render(presetInfo[p])))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(string(m.selected))) + "\n    " + menuSub.Render(presetInfo[m.selected]) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, p := range m.params {
		valStr := fmt.Sprintf("%8.1f", p.value)
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-12s", p.name)), menuDesc.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-12s", p.name)), menuIdleDesc.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu and then the live sky.
func RunInteractive(cfg *config.Config, orc *oracle.Oracle, collector *metrics.Collector) error {
	_, err := tea.NewProgram(NewInteractiveApp(cfg, orc, collector), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
