package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/equilab/internal/particles"
	"github.com/san-kum/equilab/internal/telemetry"
	"github.com/san-kum/equilab/internal/viz"
)

const (
	fieldCols  = 60
	fieldRows  = 20
	countStep  = 5
	targetStep = 0.1
	minTarget  = 0.1
	chartWidth = 40
)

var helpLines = []string{
	"space start/stop   r reset   q quit",
	"a/A b/B p/P  -/+5 particles",
	"k/K target -/+0.1   -/+ speed",
	"t theme   ? help",
}

type tickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model drives a Simulation from bubbletea ticks. All simulation access
// happens on the bubbletea update goroutine.
type Model struct {
	sim      *particles.Simulation
	field    *viz.Field
	theme    viz.Theme
	fps      int
	showHelp bool
	err      error
	width    int
}

func NewModel(sim *particles.Simulation, fps int, theme viz.Theme) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		sim:   sim,
		field: viz.NewField(fieldCols, fieldRows),
		theme: theme,
		fps:   fps,
	}
}

func (m Model) Init() tea.Cmd { return tick(m.fps) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.sim.Stop()
			return m, tea.Quit
		}
		m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		if m.sim.Status() == particles.Running {
			m.sim.Step()
		}
		return m, tick(m.fps)
	}
	return m, nil
}

func (m *Model) handleKey(key string) {
	m.err = nil
	c := m.sim.Counts()
	switch key {
	case " ":
		if !m.sim.Start() {
			m.sim.Stop()
		}
	case "r":
		m.sim.Reset()
	case "+", "=":
		m.sim.SetSpeed(m.sim.Config().Speed + 1)
	case "-", "_":
		m.sim.SetSpeed(m.sim.Config().Speed - 1)
	case "a":
		m.setCounts(particles.Counts{A: c.A - countStep, B: c.B, AB: c.AB})
	case "A":
		m.setCounts(particles.Counts{A: c.A + countStep, B: c.B, AB: c.AB})
	case "b":
		m.setCounts(particles.Counts{A: c.A, B: c.B - countStep, AB: c.AB})
	case "B":
		m.setCounts(particles.Counts{A: c.A, B: c.B + countStep, AB: c.AB})
	case "p":
		m.setCounts(particles.Counts{A: c.A, B: c.B, AB: c.AB - countStep})
	case "P":
		m.setCounts(particles.Counts{A: c.A, B: c.B, AB: c.AB + countStep})
	case "k":
		m.err = m.sim.SetTarget(math.Max(minTarget, m.sim.Config().TargetKc-targetStep))
	case "K":
		m.err = m.sim.SetTarget(m.sim.Config().TargetKc + targetStep)
	case "t":
		m.theme = viz.NextTheme(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
}

// setCounts clamps at zero and repopulates the whole field.
func (m *Model) setCounts(c particles.Counts) {
	c.A, c.B, c.AB = max(c.A, 0), max(c.B, 0), max(c.AB, 0)
	m.sim.SetCounts(c)
}

func (m Model) View() string {
	cfg := m.sim.Config()
	m.field.Plot(m.sim.Particles(), cfg.Width, cfg.Height)
	fieldView := viz.Panel.Render(m.field.Render(m.theme))

	var s strings.Builder
	s.WriteString(viz.Title.Render("A + B ⇌ AB") + "\n\n")
	s.WriteString(m.status() + "\n\n")

	c := m.sim.Counts()
	row := func(label, value string) {
		s.WriteString(viz.MetricLabel.Render(label) + viz.MetricValue.Render(value) + "\n")
	}
	row("tick", fmt.Sprintf("%d", m.sim.TimeStep()))
	row("speed", fmt.Sprintf("%.0f", cfg.Speed))
	row("A", lipgloss.NewStyle().Foreground(m.theme.A).Render(fmt.Sprintf("%d", c.A)))
	row("B", lipgloss.NewStyle().Foreground(m.theme.B).Render(fmt.Sprintf("%d", c.B)))
	row("AB", lipgloss.NewStyle().Foreground(m.theme.AB).Render(fmt.Sprintf("%d", c.AB)))
	row("Kc", FormatKc(c.Kc()))
	row("target", fmt.Sprintf("%.2f", cfg.TargetKc))
	s.WriteString(viz.MetricLabel.Render("proximity") + viz.Proximity(c.Kc(), cfg.TargetKc, 16) + "\n\n")

	if reached, value := m.sim.Equilibrium(); reached {
		s.WriteString(viz.Banner(m.theme, fmt.Sprintf("Equilibrium reached! Kc = %.2f", value)) + "\n\n")
	}

	series := m.sim.Series()
	if series.Len() > 1 {
		s.WriteString(viz.Subtle.Render("AB") + " " + viz.SparklineChart(series.Column(telemetry.ColumnAB), chartWidth) + "\n")
		s.WriteString(kcChart(series) + "\n")
	}
	if m.err != nil {
		s.WriteString(viz.ErrorText.Render(m.err.Error()) + "\n")
	}

	s.WriteString("\n" + viz.Separator(chartWidth) + "\n")
	if m.showHelp {
		s.WriteString(viz.KeyHint.Render(strings.Join(helpLines, "\n")))
	} else {
		s.WriteString(viz.KeyHint.Render("? help"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, fieldView, viz.Panel.Render(s.String()))
}

func (m Model) status() string {
	switch m.sim.Status() {
	case particles.Running:
		return viz.StatusRunning.Render("● RUNNING")
	case particles.Stopped:
		return viz.StatusStopped.Render("■ STOPPED")
	default:
		return viz.StatusIdle.Render("○ IDLE")
	}
}

// kcChart plots the defined Kc readings; asciigraph cannot draw NaN or Inf.
func kcChart(series *telemetry.Series) string {
	raw := series.Column(telemetry.ColumnKc)
	data := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			data = append(data, v)
		}
	}
	if len(data) < 2 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(5),
		asciigraph.Width(chartWidth),
		asciigraph.Caption("Kc"),
	)
}

// FormatKc prints undefined ratios as a dash.
func FormatKc(kc float64) string {
	switch {
	case math.IsNaN(kc):
		return "-"
	case math.IsInf(kc, 1):
		return "∞"
	default:
		return fmt.Sprintf("%.2f", kc)
	}
}

// Run starts the interactive program on the alternate screen.
func Run(sim *particles.Simulation, fps int, theme viz.Theme) error {
	_, err := tea.NewProgram(NewModel(sim, fps, theme), tea.WithAltScreen()).Run()
	return err
}
