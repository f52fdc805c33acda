package chem

import (
	"math"
	"testing"
)

func TestReactionQuotient(t *testing.T) {
	terms := []Term{
		{Name: "N2", Concentration: 0.5, Coefficient: 1, Role: Reactant},
		{Name: "H2", Concentration: 2, Coefficient: 3, Role: Reactant},
		{Name: "NH3", Concentration: 1, Coefficient: 2, Role: Product},
	}
	want := 1.0 / (0.5 * 8)
	if got := ReactionQuotient(terms); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %g, got %g", want, got)
	}
}

func TestReactionQuotient_ScaleConsistent(t *testing.T) {
	reactants := []float64{0.3, 1.2}
	products := []float64{0.7, 0.9}
	ones := []float64{1, 1}

	q1 := QuotientFromLists(reactants, ones, products, ones)

	double := func(in []float64) []float64 {
		out := make([]float64, len(in))
		for i, v := range in {
			out[i] = 2 * v
		}
		return out
	}
	q2 := QuotientFromLists(double(reactants), ones, double(products), ones)

	if math.Abs(q1-q2) > 1e-12 {
		t.Errorf("quotient not scale consistent: %g vs %g", q1, q2)
	}
}

func TestReactionQuotient_ZeroPropagates(t *testing.T) {
	q := QuotientFromLists([]float64{0}, []float64{1}, []float64{1}, []float64{1})
	if !math.IsInf(q, 1) {
		t.Errorf("expected +Inf, got %g", q)
	}

	q = QuotientFromLists([]float64{0}, []float64{1}, []float64{0}, []float64{1})
	if !math.IsNaN(q) {
		t.Errorf("expected NaN, got %g", q)
	}
}

func TestTermsDefaultCoefficient(t *testing.T) {
	terms := Terms(Product, []string{"C"}, []float64{2, 3}, []float64{2})
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if terms[1].Coefficient != 1 {
		t.Errorf("expected default coefficient 1, got %g", terms[1].Coefficient)
	}
	if terms[0].Name != "C" || terms[1].Name != "" {
		t.Errorf("unexpected names: %q %q", terms[0].Name, terms[1].Name)
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		q, k float64
		want Shift
	}{
		{1, 1, AtEquilibrium},
		{0.5, 1, ShiftForward},
		{2, 1, ShiftReverse},
		{math.NaN(), 1, Undetermined},
	}
	for _, tt := range tests {
		if got := Direction(tt.q, tt.k, 1e-6); got != tt.want {
			t.Errorf("Direction(%g, %g) = %v, want %v", tt.q, tt.k, got, tt.want)
		}
	}
}
