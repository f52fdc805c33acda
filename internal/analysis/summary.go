package analysis

import (
	"math"

	"github.com/san-kum/equilab/internal/telemetry"
)

type Summary struct {
	Points int
	// SettledAt is the first tick whose Kc lies within tolerance of the
	// target, or -1.
	SettledAt int
	MeanKc    float64
	MinKc     float64
	MaxKc     float64
	// Crossings counts upward passes of Kc through the target.
	Crossings int
	FinalA    int
	FinalB    int
	FinalAB   int
}

// Summarize scans a telemetry window. Undefined Kc readings are skipped for
// the mean and range.
func Summarize(points []telemetry.Point, target, tolerance float64) Summary {
	s := Summary{Points: len(points), SettledAt: -1}
	if len(points) == 0 {
		return s
	}

	last := points[len(points)-1]
	s.FinalA, s.FinalB, s.FinalAB = last.A, last.B, last.AB

	s.MinKc = math.Inf(1)
	s.MaxKc = math.Inf(-1)
	defined := 0
	prev := math.NaN()

	for _, p := range points {
		kc := p.Kc
		if math.IsNaN(kc) || math.IsInf(kc, 0) {
			prev = math.NaN()
			continue
		}

		defined++
		s.MeanKc += kc
		s.MinKc = math.Min(s.MinKc, kc)
		s.MaxKc = math.Max(s.MaxKc, kc)

		if s.SettledAt < 0 && math.Abs(kc-target) < tolerance {
			s.SettledAt = p.Tick
		}
		if !math.IsNaN(prev) && prev < target && kc >= target {
			s.Crossings++
		}
		prev = kc
	}

	if defined == 0 {
		s.MeanKc, s.MinKc, s.MaxKc = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.MeanKc /= float64(defined)
	return s
}
