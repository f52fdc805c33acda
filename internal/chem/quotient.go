package chem

import "math"

type Role int

const (
	Reactant Role = iota
	Product
)

func (r Role) String() string {
	if r == Product {
		return "product"
	}
	return "reactant"
}

type Term struct {
	Name          string
	Concentration float64
	Coefficient   float64
	Role          Role
}

// ReactionQuotient is prod(products^coeff) / prod(reactants^coeff). A zero
// concentration raised to a negative power or a zero denominator yields
// Inf or NaN; the value is returned as is.
func ReactionQuotient(terms []Term) float64 {
	num, den := 1.0, 1.0
	for _, t := range terms {
		v := math.Pow(t.Concentration, t.Coefficient)
		if t.Role == Product {
			num *= v
		} else {
			den *= v
		}
	}
	return num / den
}

// Terms zips concentration and coefficient lists. Coefficients missing from
// the list default to 1.
func Terms(role Role, names []string, conc, coeff []float64) []Term {
	terms := make([]Term, 0, len(conc))
	for i, c := range conc {
		t := Term{Concentration: c, Coefficient: 1, Role: role}
		if i < len(coeff) {
			t.Coefficient = coeff[i]
		}
		if i < len(names) {
			t.Name = names[i]
		}
		terms = append(terms, t)
	}
	return terms
}

func QuotientFromLists(reactantConc, reactantCoeff, productConc, productCoeff []float64) float64 {
	terms := Terms(Reactant, nil, reactantConc, reactantCoeff)
	terms = append(terms, Terms(Product, nil, productConc, productCoeff)...)
	return ReactionQuotient(terms)
}

type Shift int

const (
	AtEquilibrium Shift = iota
	ShiftForward
	ShiftReverse
	Undetermined
)

func (s Shift) String() string {
	switch s {
	case AtEquilibrium:
		return "at equilibrium"
	case ShiftForward:
		return "shifts toward products"
	case ShiftReverse:
		return "shifts toward reactants"
	default:
		return "undetermined"
	}
}

// Direction compares Q against K within a relative tolerance.
func Direction(q, k, tol float64) Shift {
	if math.IsNaN(q) || math.IsNaN(k) {
		return Undetermined
	}
	if math.Abs(q-k) <= tol*math.Max(1, math.Abs(k)) {
		return AtEquilibrium
	}
	if q < k {
		return ShiftForward
	}
	return ShiftReverse
}
