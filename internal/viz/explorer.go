package viz

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/dragsim/internal/config"
	"github.com/san-kum/dragsim/internal/experiment"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/report"
)

const (
	minCanvasWidth = 20
	canvasHeight   = 12
	sidebarWidth   = 34
	nudgeFraction  = 0.05
	minNudge       = 0.01
	defaultWidth   = 80
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Inc    key.Binding
	Dec    key.Binding
	Edit   key.Binding
	Cancel key.Binding
	Reset  key.Binding
	Theme  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Inc:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		Dec:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Edit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Inc, k.Dec, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Inc, k.Dec},
		{k.Edit, k.Cancel, k.Reset},
		{k.Theme, k.Help, k.Quit},
	}
}

// Explorer is an interactive parameter editor that recomputes both
// trajectories on every change.
type Explorer struct {
	base   config.Config
	cfg    config.Config
	names  []string
	cursor int

	editing bool
	input   textinput.Model

	keys  keyMap
	help  help.Model
	theme int

	result *experiment.Result
	err    error

	width, height int
}

func NewExplorer(cfg *config.Config) *Explorer {
	input := textinput.New()
	input.Prompt = "= "
	input.CharLimit = 24

	m := &Explorer{
		base:  *cfg,
		cfg:   *cfg,
		names: physics.ParamNames(),
		input: input,
		keys:  newKeyMap(),
		help:  help.New(),
		width: defaultWidth,
	}
	m.recompute()
	return m
}

func (m *Explorer) Init() tea.Cmd { return nil }

func (m *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg)
		}
		return m.browseKey(msg)
	}
	return m, nil
}

func (m *Explorer) browseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Inc):
		m.nudge(1)
	case key.Matches(msg, m.keys.Dec):
		m.nudge(-1)
	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.input.SetValue(strconv.FormatFloat(m.value(), 'g', -1, 64))
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Reset):
		m.cfg = m.base
		m.recompute()
	case key.Matches(msg, m.keys.Theme):
		m.theme = (m.theme + 1) % len(Themes)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Explorer) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.editing = false
		m.input.Blur()
		v, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
		if err != nil {
			m.err = fmt.Errorf("%s: %w", m.names[m.cursor], err)
			return m, nil
		}
		m.set(v)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Explorer) value() float64 {
	return m.cfg.Params.GetParams()[m.names[m.cursor]]
}

func (m *Explorer) nudge(dir float64) {
	v := m.value()
	step := max(nudgeFraction*math.Abs(v), minNudge)
	m.set(v + dir*step)
}

func (m *Explorer) set(v float64) {
	p, err := m.cfg.Params.With(m.names[m.cursor], v)
	if err != nil {
		m.err = err
		return
	}
	m.cfg.Params = p
	m.recompute()
}

func (m *Explorer) recompute() {
	cfg := m.cfg
	res, err := experiment.New(&cfg, nil).Run(context.Background())
	m.result, m.err = res, err
}

func (m *Explorer) View() string {
	th := Themes[m.theme]
	title := lipgloss.NewStyle().Bold(true).Foreground(th.Galileo)
	muted := lipgloss.NewStyle().Foreground(th.Muted)
	text := lipgloss.NewStyle().Foreground(th.Text)
	selected := lipgloss.NewStyle().Bold(true).Foreground(th.Newton)
	errStyle := lipgloss.NewStyle().Foreground(th.Error)

	var side strings.Builder
	side.WriteString(title.Render("PARAMETERS") + "\n\n")
	values := m.cfg.Params.GetParams()
	for i, name := range m.names {
		val := fmt.Sprintf("%10.4g", values[name])
		if i == m.cursor && m.editing {
			val = m.input.View()
		}
		line := fmt.Sprintf("%-13s %s", name, val)
		if i == m.cursor {
			side.WriteString(selected.Render("▸ "+line) + "\n")
		} else {
			side.WriteString("  " + text.Render(line) + "\n")
		}
	}
	side.WriteString("\n" + muted.Render("theme: "+th.Name) + "\n")

	cw := m.width - sidebarWidth - 2
	if cw < minCanvasWidth {
		cw = minCanvasWidth
	}
	canvas := NewCanvas(cw, canvasHeight)
	if m.result != nil {
		b := TrajectoryBounds(m.result.Galileo, m.result.Newton)
		canvas.DrawTrajectory(m.result.Galileo, b, 0)
		canvas.DrawTrajectory(m.result.Newton, b, 1)
	}
	plot := canvas.Render(
		[]lipgloss.Style{
			lipgloss.NewStyle().Foreground(th.Galileo),
			lipgloss.NewStyle().Foreground(th.Newton),
		},
		lipgloss.NewStyle().Foreground(th.Overlap),
	)
	legend := lipgloss.NewStyle().Foreground(th.Galileo).Render("■ galileo") + "   " +
		lipgloss.NewStyle().Foreground(th.Newton).Render("■ newton")

	var s strings.Builder
	s.WriteString(title.Render("DRAGSIM") + "  " + muted.Render("galileo vs newton with drag") + "\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(sidebarWidth).Render(side.String()),
		plot+legend,
	))
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(errStyle.Render("error: "+m.err.Error()) + "\n")
	} else if m.result != nil {
		var table strings.Builder
		if err := report.Comparison(&table, m.result.Rows); err == nil {
			s.WriteString(table.String())
		}
	}

	s.WriteString("\n" + m.help.View(m.keys))
	return s.String()
}

func RunExplorer(cfg *config.Config) error {
	_, err := tea.NewProgram(NewExplorer(cfg), tea.WithAltScreen()).Run()
	return err
}
