// Package input normalizes raw user text before it reaches the numeric core.
// Malformed numbers become 0; nothing here returns NaN.
package input

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/equilab/internal/chem"
)

// Float parses s leniently: surrounding space is ignored, a leading numeric
// prefix is accepted ("2.5M" -> 2.5) and anything unparseable is 0.
func Float(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return finite(v)
	}
	end := numericPrefix(s)
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

// Count parses a non-negative particle count. Fractions are truncated.
func Count(s string) int {
	v := Float(s)
	if v <= 0 {
		return 0
	}
	return int(v)
}

// List splits a comma separated list of numbers, normalizing each entry.
func List(s string) []float64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		out[i] = Float(p)
	}
	return out
}

// Names splits a comma separated list of species names.
func Names(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Positive rejects values that are not strictly positive finite reals.
func Positive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%s must be a valid, positive number, got %v: %w", name, v, chem.ErrInvalidInput)
	}
	return nil
}

// NonNegative rejects negative or non-finite values.
func NonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%s must be a non-negative number, got %v: %w", name, v, chem.ErrInvalidInput)
	}
	return nil
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func numericPrefix(s string) int {
	end := 0
	seenDigit, seenDot := false, false
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '-' || c == '+') && i == 0:
		default:
			if !seenDigit {
				return 0
			}
			return end
		}
	}
	if !seenDigit {
		return 0
	}
	return end
}
