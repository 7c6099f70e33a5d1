// Package viz renders a live closed-loop view in the terminal with
// interactive gain tuning.
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pidlab/internal/loop"
	"github.com/san-kum/pidlab/internal/pid"
)

const (
	graphWidth      = 80
	graphHeight     = 12
	historyCapacity = 400
	stepsPerTick    = 4
)

var (
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	clampedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps the closed loop from tick to tick and draws setpoint
// against measured output.
type Model struct {
	plant     loop.Plant
	stepper   loop.Stepper
	ctrl      *pid.Controller
	ref       loop.Reference
	plantName string

	state     loop.State
	initState loop.State
	t         float64
	dt        float64
	running   bool

	outputHist   []float64
	setpointHist []float64

	paramKeys []string
	selected  int
}

func NewModel(p loop.Plant, stepper loop.Stepper, ctrl *pid.Controller, ref loop.Reference, initState []float64, plantName string) Model {
	keys := make([]string, 0)
	for k := range ctrl.GetParams() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Model{
		plant:        p,
		stepper:      stepper,
		ctrl:         ctrl,
		ref:          ref,
		plantName:    plantName,
		state:        loop.State(initState).Clone(),
		initState:    loop.State(initState).Clone(),
		dt:           ctrl.Dt(),
		running:      true,
		outputHist:   make([]float64, 0, historyCapacity),
		setpointHist: make([]float64, 0, historyCapacity),
		paramKeys:    keys,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}
	case TickMsg:
		if m.running {
			for i := 0; i < stepsPerTick; i++ {
				m.step()
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	y := m.plant.Output(m.state)
	sp := m.ref.At(m.t)
	u := m.ctrl.Step(sp - y)

	m.state = m.stepper.Step(m.plant, m.state, u, m.t, m.dt)
	m.t += m.dt

	if !m.state.IsValid() {
		m.running = false
		return
	}

	m.outputHist = append(m.outputHist, y)
	m.setpointHist = append(m.setpointHist, sp)
	if len(m.outputHist) > historyCapacity {
		m.outputHist = m.outputHist[1:]
		m.setpointHist = m.setpointHist[1:]
	}
}

func (m *Model) reset() {
	m.state = m.initState.Clone()
	m.t = 0
	m.ctrl.Reset()
	m.outputHist = m.outputHist[:0]
	m.setpointHist = m.setpointHist[:0]
	m.running = true
}

// adjustParam scales the selected parameter through the controller's
// silent setters; a rejected value simply leaves the display
// unchanged.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.ctrl.GetParams()[key]
	if val == 0 {
		// A zero gain cannot be scaled up; nudge it instead.
		if factor > 1 {
			m.ctrl.SetParam(key, 0.01)
		}
		return
	}
	m.ctrl.SetParam(key, val*factor)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("pidlab live — %s", m.plantName)))
	b.WriteString("\n")

	if len(m.outputHist) >= 2 {
		graph := asciigraph.PlotMany(
			[][]float64{m.setpointHist, m.outputHist},
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
			asciigraph.Caption("setpoint (red) vs output (green)"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(m.statusView())
	b.WriteString(m.paramsView())

	status := "running"
	if !m.running {
		status = "paused"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"[%s]  space pause · r reset · tab select gain · ↑/↓ adjust · q quit", status)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) statusView() string {
	y := m.plant.Output(m.state)
	sp := m.ref.At(m.t)

	var b strings.Builder
	row := func(label string, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	row("time", fmt.Sprintf("%8.2f s", m.t))
	row("setpoint", fmt.Sprintf("%8.3f", sp))
	row("output", fmt.Sprintf("%8.3f", y))
	row("error", fmt.Sprintf("%8.3f", sp-y))
	row("integral", fmt.Sprintf("%8.3f", m.ctrl.I()))
	row("derivative", fmt.Sprintf("%8.3f", m.ctrl.D()))

	if !m.ctrl.Unclamped() {
		b.WriteString(clampedStyle.Render("SATURATED — integration frozen"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) paramsView() string {
	params := m.ctrl.GetParams()

	var b strings.Builder
	for i, key := range m.paramKeys {
		line := fmt.Sprintf("%-8s %.4f", key, params[key])
		if i == m.selected {
			b.WriteString(activeParamStyle.Render("> " + line))
		} else {
			b.WriteString(valueStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
