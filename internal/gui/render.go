package gui

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/equilab/internal/particles"
	"github.com/san-kum/equilab/internal/telemetry"
	"github.com/san-kum/equilab/internal/viz"
)

const particleRadius = 5

func themeColor(c lipgloss.Color) rl.Color {
	r, g, b := viz.RGB(c)
	return rl.NewColor(r, g, b, 255)
}

func (a *App) speciesColor(s particles.Species) rl.Color {
	switch s {
	case particles.ReactantA:
		return themeColor(a.Theme.A)
	case particles.ReactantB:
		return themeColor(a.Theme.B)
	default:
		return themeColor(a.Theme.AB)
	}
}

func (a *App) drawField() {
	cfg := a.Sim.Config()
	f := a.Field
	rl.DrawRectangleLinesEx(f, 1, ColFrame)

	sx := f.Width / float32(cfg.Width)
	sy := f.Height / float32(cfg.Height)
	for _, p := range a.Sim.Particles() {
		x := f.X + float32(p.X)*sx
		y := f.Y + float32(p.Y)*sy
		r := float32(particleRadius)
		if p.Species == particles.ProductAB {
			r *= 1.4
		}
		rl.DrawCircleV(rl.NewVector2(x, y), r, a.speciesColor(p.Species))
	}
}

// DrawTelemetry plots the species counts below the field.
func (a *App) DrawTelemetry() {
	series := a.Sim.Series()
	if series.Len() < 2 {
		return
	}

	rect := rl.NewRectangle(30, 590, 820, 80)
	rl.DrawRectangleLinesEx(rect, 1, ColFrame)

	total := float64(a.Sim.Config().Counts.Total())
	if total <= 0 {
		total = 1
	}

	columns := []struct {
		f   func(telemetry.Point) float64
		col rl.Color
	}{
		{telemetry.ColumnA, themeColor(a.Theme.A)},
		{telemetry.ColumnB, themeColor(a.Theme.B)},
		{telemetry.ColumnAB, themeColor(a.Theme.AB)},
	}
	for _, c := range columns {
		rl.DrawLineStrip(stripPoints(series.Column(c.f), total, rect, series.Cap()), c.col)
	}
}

// stripPoints maps values in [0, hi] into rect, one slot per capacity entry.
func stripPoints(values []float64, hi float64, rect rl.Rectangle, capacity int) []rl.Vector2 {
	points := make([]rl.Vector2, len(values))
	for i, v := range values {
		norm := math.Max(0, math.Min(v/hi, 1))
		px := rect.X + float32(i)/float32(capacity)*rect.Width
		py := rect.Y + rect.Height - float32(norm)*rect.Height
		points[i] = rl.NewVector2(px, py)
	}
	return points
}
