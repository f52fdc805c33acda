package tui

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/equilab/internal/particles"
	"github.com/san-kum/equilab/internal/viz"
)

func newTestModel() Model {
	cfg := particles.DefaultConfig()
	sim := particles.New(cfg, particles.WithRand(rand.New(rand.NewSource(1))))
	return NewModel(sim, 60, viz.ThemeClassic)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	if key == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestSpaceTogglesRunning(t *testing.T) {
	m := newTestModel()

	m = press(m, " ")
	if m.sim.Status() != particles.Running {
		t.Fatalf("expected running, got %v", m.sim.Status())
	}

	next, _ := m.Update(tickMsg{})
	m = next.(Model)
	if m.sim.TimeStep() != 1 {
		t.Errorf("expected one tick, got %d", m.sim.TimeStep())
	}

	m = press(m, " ")
	if m.sim.Status() != particles.Stopped {
		t.Errorf("expected stopped, got %v", m.sim.Status())
	}

	next, _ = m.Update(tickMsg{})
	m = next.(Model)
	if m.sim.TimeStep() != 1 {
		t.Errorf("expected no tick while stopped, got %d", m.sim.TimeStep())
	}
}

func TestCountKeysRepopulate(t *testing.T) {
	m := newTestModel()

	m = press(m, "A")
	m = press(m, "p")
	m = press(m, "P")
	c := m.sim.Counts()
	if c.A != 55 || c.B != 50 || c.AB != 5 {
		t.Errorf("expected 55/50/5, got %+v", c)
	}
	if m.sim.Atoms() != c.Atoms() {
		t.Errorf("expected atoms %d, got %d", c.Atoms(), m.sim.Atoms())
	}
}

func TestTargetKeysFloor(t *testing.T) {
	m := newTestModel()
	for i := 0; i < 20; i++ {
		m = press(m, "k")
	}
	if got := m.sim.Config().TargetKc; math.Abs(got-minTarget) > 1e-9 {
		t.Errorf("expected target floored at %v, got %v", minTarget, got)
	}
	m = press(m, "K")
	if got := m.sim.Config().TargetKc; math.Abs(got-0.2) > 1e-9 {
		t.Errorf("expected 0.2, got %v", got)
	}
}

func TestSpeedKeysClamp(t *testing.T) {
	m := newTestModel()
	for i := 0; i < 20; i++ {
		m = press(m, "+")
	}
	if m.sim.Config().Speed != particles.MaxSpeed {
		t.Errorf("expected max speed, got %v", m.sim.Config().Speed)
	}
}

func TestViewShowsCounts(t *testing.T) {
	m := newTestModel()
	view := m.View()
	if !strings.Contains(view, "IDLE") {
		t.Error("expected idle status in view")
	}
	if !strings.Contains(view, "50") {
		t.Error("expected counts in view")
	}
}

func TestFormatKc(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.00"},
		{math.NaN(), "-"},
		{math.Inf(1), "∞"},
	}
	for _, tt := range tests {
		if got := FormatKc(tt.in); got != tt.want {
			t.Errorf("FormatKc(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLiveRendererThrottles(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, 1, 600, 400)
	ps := []particles.Particle{{X: 10, Y: 10, Species: particles.ReactantA}}

	r.OnFrame(particles.Frame{Tick: 1, Counts: particles.Counts{A: 1}}, ps)
	first := buf.Len()
	if first == 0 {
		t.Fatal("expected first frame to render")
	}

	r.OnFrame(particles.Frame{Tick: 2, Counts: particles.Counts{A: 1}}, ps)
	if buf.Len() != first {
		t.Error("expected second frame to be throttled")
	}

	r.OnFrame(particles.Frame{Tick: 3, Kc: 1, Entered: true, Reached: true}, ps)
	if !strings.Contains(buf.String(), "Equilibrium reached! Kc = 1.00") {
		t.Error("expected equilibrium frame to bypass throttle")
	}
}
