package input

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/equilab/internal/chem"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.5", 1.5},
		{"  2 ", 2},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"2.5M", 2.5},
		{"-3x", -3},
		{".5", 0.5},
		{"-", 0},
		{"1.2.3", 1.2},
	}

	for _, tt := range tests {
		if got := Float(tt.in); got != tt.want {
			t.Errorf("Float(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"50", 50},
		{"12.9", 12},
		{"-4", 0},
		{"many", 0},
	}
	for _, tt := range tests {
		if got := Count(tt.in); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestList(t *testing.T) {
	got := List("1, 2.5,x, 4")
	want := []float64{1, 2.5, 0, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	if List("  ") != nil {
		t.Error("expected nil for blank list")
	}
}

func TestNames(t *testing.T) {
	got := Names("N2, H2 ,NH3")
	if len(got) != 3 || got[1] != "H2" {
		t.Errorf("unexpected names: %v", got)
	}
}

func TestPositive(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := Positive("kc", v); !errors.Is(err, chem.ErrInvalidInput) {
			t.Errorf("Positive(%v): expected ErrInvalidInput, got %v", v, err)
		}
	}
	if err := Positive("kc", 0.5); err != nil {
		t.Errorf("Positive(0.5): unexpected error %v", err)
	}
	if err := NonNegative("conc", 0); err != nil {
		t.Errorf("NonNegative(0): unexpected error %v", err)
	}
	if err := NonNegative("conc", -0.1); err == nil {
		t.Error("NonNegative(-0.1): expected error")
	}
}
