package chem

import "testing"

func TestAdvise(t *testing.T) {
	tests := []struct {
		in   Condition
		want string
	}{
		{"increase-pressure", "Increasing pressure favors the side with fewer moles of gas."},
		{"add-reactant", "Adding reactant shifts equilibrium to the products."},
		{"remove-product", "Removing product shifts equilibrium to the products."},
		{"unknown", "No change applied."},
		{"", "No change applied."},
	}

	for _, tt := range tests {
		if got := Advise(tt.in); got != tt.want {
			t.Errorf("Advise(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConditionsAreTotal(t *testing.T) {
	conds := Conditions()
	if len(conds) != 8 {
		t.Fatalf("expected 8 conditions, got %d", len(conds))
	}
	for _, c := range conds {
		if Advise(c) == NoChange {
			t.Errorf("condition %q has no advice", c)
		}
	}
}
