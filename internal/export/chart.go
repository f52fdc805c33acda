package export

import (
	"image/color"
	"math"

	"github.com/san-kum/equilab/internal/telemetry"
)

// Line is one named series of a chart.
type Line struct {
	Label  string
	Color  color.RGBA
	Values []float64
}

// Bar is one labelled bar of a chart.
type Bar struct {
	Label string
	Color color.RGBA
	Value float64
}

var (
	Red    = color.RGBA{R: 255, G: 77, B: 77, A: 255}
	Blue   = color.RGBA{R: 77, G: 121, B: 255, A: 255}
	Green  = color.RGBA{R: 60, G: 179, B: 113, A: 255}
	Purple = color.RGBA{R: 184, G: 77, B: 255, A: 255}

	background = color.RGBA{R: 10, G: 10, B: 10, A: 255}
	axis       = color.RGBA{R: 68, G: 68, B: 102, A: 255}
	label      = color.RGBA{R: 200, G: 200, B: 210, A: 255}
)

// SpeciesLines turns telemetry into the A, B and AB count series.
func SpeciesLines(points []telemetry.Point) []Line {
	col := func(f func(telemetry.Point) float64) []float64 {
		out := make([]float64, len(points))
		for i, p := range points {
			out[i] = f(p)
		}
		return out
	}
	return []Line{
		{Label: "Reactant A", Color: Red, Values: col(telemetry.ColumnA)},
		{Label: "Reactant B", Color: Blue, Values: col(telemetry.ColumnB)},
		{Label: "Product AB", Color: Purple, Values: col(telemetry.ColumnAB)},
	}
}

// ConcentrationBars is the reactant/product pair of the two-species solver.
func ConcentrationBars(reactant, product float64) []Bar {
	return []Bar{
		{Label: "Reactants", Color: Blue, Value: reactant},
		{Label: "Products", Color: Green, Value: product},
	}
}

// bounds returns the finite value range over all lines, padded so a flat
// series still has height. ok is false when no finite value exists.
func bounds(lines []Line) (lo, hi float64, n int, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		n = max(n, len(l.Values))
		for _, v := range l.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) {
		return 0, 0, n, false
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi, n, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
