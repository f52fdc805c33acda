package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/equilab/internal/telemetry"
)

func TestPowerSpectrumPads(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 64 {
		t.Errorf("expected 64 bins for 100 samples, got %d", len(ps))
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}

func TestDominantPeriod(t *testing.T) {
	data := make([]float64, 128)
	for i := range data {
		data[i] = 1 + 0.5*math.Sin(2*math.Pi*float64(i)/16)
	}

	period, ok := DominantPeriod(data)
	if !ok {
		t.Fatal("expected a dominant period")
	}
	if math.Abs(period-16) > 0.5 {
		t.Errorf("expected period 16, got %f", period)
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	data := []float64{2, 2, 2, 2, 2, 2, 2, 2}
	if _, ok := DominantPeriod(data); ok {
		t.Error("expected no period for flat input")
	}
	if _, ok := DominantPeriod([]float64{1, 2}); ok {
		t.Error("expected no period for short input")
	}
}

func TestDominantPeriodIgnoresUndefined(t *testing.T) {
	data := make([]float64, 64)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * float64(i) / 8)
	}
	data[0] = math.NaN()
	data[1] = math.Inf(1)

	period, ok := DominantPeriod(data)
	if !ok || math.Abs(period-8) > 0.5 {
		t.Errorf("expected period 8, got %f (ok=%v)", period, ok)
	}
}

func TestSummarize(t *testing.T) {
	points := []telemetry.Point{
		{Tick: 0, A: 50, B: 50, AB: 0, Kc: 0},
		{Tick: 1, A: 40, B: 40, AB: 10, Kc: 0.5},
		{Tick: 2, A: 30, B: 30, AB: 20, Kc: math.NaN()},
		{Tick: 3, A: 25, B: 25, AB: 25, Kc: 1.02},
		{Tick: 4, A: 25, B: 25, AB: 25, Kc: 1.5},
	}

	s := Summarize(points, 1.0, 0.1)
	if s.Points != 5 {
		t.Errorf("expected 5 points, got %d", s.Points)
	}
	if s.SettledAt != 3 {
		t.Errorf("expected settled at tick 3, got %d", s.SettledAt)
	}
	if s.FinalAB != 25 {
		t.Errorf("expected final AB 25, got %d", s.FinalAB)
	}
	if s.MinKc != 0 || s.MaxKc != 1.5 {
		t.Errorf("expected range [0, 1.5], got [%f, %f]", s.MinKc, s.MaxKc)
	}
	want := (0 + 0.5 + 1.02 + 1.5) / 4
	if math.Abs(s.MeanKc-want) > 1e-9 {
		t.Errorf("expected mean %f, got %f", want, s.MeanKc)
	}
	// NaN at tick 2 breaks the 0.5 -> 1.02 pass.
	if s.Crossings != 0 {
		t.Errorf("expected 0 crossings, got %d", s.Crossings)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 1, 0.1)
	if s.SettledAt != -1 || s.Points != 0 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestTrajectory(t *testing.T) {
	points := []telemetry.Point{
		{A: 50, AB: 0},
		{A: 40, AB: 10},
		{A: 25, AB: 25},
	}

	out := Trajectory(points, 20, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if !strings.ContainsRune(lines[0], 'o') {
		t.Errorf("expected latest point on the top row, got %q", lines[0])
	}
	if !strings.ContainsRune(lines[9], '•') {
		t.Errorf("expected start point on the bottom row, got %q", lines[9])
	}
	if Trajectory(nil, 20, 10) != "" {
		t.Error("expected empty output for no points")
	}
}
