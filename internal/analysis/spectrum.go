package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// finite replaces NaN and Inf samples with zero so a single undefined Kc
// reading does not poison the whole transform.
func finite(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = v
	}
	return out
}

// detrend subtracts the mean so bin zero does not dominate.
func detrend(data []float64) []float64 {
	if len(data) == 0 {
		return data
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

// PowerSpectrum zero-pads data to a power of two and returns the magnitude of
// the first half of the spectrum. The result has nextPow2(len(data))/2 bins.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	padded := make([]float64, nextPow2(len(data)))
	copy(padded, finite(data))

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period in ticks of the strongest non-DC component
// of a series sampled once per tick. ok is false for flat or too-short input.
func DominantPeriod(data []float64) (period float64, ok bool) {
	if len(data) < 4 {
		return 0, false
	}

	ps := PowerSpectrum(detrend(finite(data)))
	n := 2 * len(ps)

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-9 {
		return 0, false
	}

	return float64(n) / float64(maxIdx), true
}
