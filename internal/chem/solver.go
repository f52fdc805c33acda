package chem

import (
	"fmt"
	"math"
)

// rootEpsilon absorbs rounding when a root lands exactly on a bound.
const rootEpsilon = 1e-12

type TwoSpeciesResult struct {
	Reactant float64
	Product  float64
	Extent   float64
}

// SolveTwoSpecies solves A <=> B for the extent x of x^2 + Kx - K*reactant = 0.
// On a negative discriminant it returns the initial values unchanged together
// with ErrNoRealSolution.
func SolveTwoSpecies(k, reactant, product float64) (TwoSpeciesResult, error) {
	a := 1.0
	b := k
	c := -k * reactant
	disc := b*b - 4*a*c

	if disc < 0 || math.IsNaN(disc) {
		return TwoSpeciesResult{Reactant: reactant, Product: product},
			fmt.Errorf("k=%g reactant=%g: %w", k, reactant, ErrNoRealSolution)
	}

	x := (-b + math.Sqrt(disc)) / (2 * a)
	return TwoSpeciesResult{
		Reactant: reactant - x,
		Product:  product + x,
		Extent:   x,
	}, nil
}

// FourSpecies holds concentrations for A + B <=> C + D.
type FourSpecies struct {
	A, B, C, D float64
}

func (f FourSpecies) Slice() []float64 { return []float64{f.A, f.B, f.C, f.D} }

// Quadratic returns the coefficients of (K-1)x^2 - (K(A+B)+C+D)x + (KAB-CD) = 0,
// the ICE-table form of K(A-x)(B-x) = (C+x)(D+x).
func Quadratic(k float64, in FourSpecies) (qa, qb, qc float64) {
	qa = k - 1
	qb = -(k*(in.A+in.B) + in.C + in.D)
	qc = k*in.A*in.B - in.C*in.D
	return qa, qb, qc
}

// SolveFourSpecies solves A + B <=> C + D with unit coefficients. K == 1 takes
// the linear branch. Either branch only accepts an extent in [0, min(A, B)];
// otherwise the zero value is returned with ErrNoValidSolution.
func SolveFourSpecies(k float64, in FourSpecies) (FourSpecies, error) {
	if k == 1 {
		return solveLinear(k, in)
	}

	qa, qb, qc := Quadratic(k, in)
	disc := qb*qb - 4*qa*qc
	if disc < 0 || math.IsNaN(disc) {
		return FourSpecies{}, fmt.Errorf("k=%g discriminant %g: %w", k, disc, ErrNoValidSolution)
	}

	sq := math.Sqrt(disc)
	roots := [2]float64{(-qb + sq) / (2 * qa), (-qb - sq) / (2 * qa)}
	limit := math.Min(in.A, in.B)

	x := math.NaN()
	for _, r := range roots {
		if r < -rootEpsilon || r > limit+rootEpsilon || math.IsNaN(r) {
			continue
		}
		if math.IsNaN(x) || r < x {
			x = r
		}
	}
	if math.IsNaN(x) {
		return FourSpecies{}, fmt.Errorf("k=%g roots %g, %g outside [0, %g]: %w",
			k, roots[0], roots[1], limit, ErrNoValidSolution)
	}
	x = math.Max(0, math.Min(x, limit))

	return shift(in, x), nil
}

func solveLinear(k float64, in FourSpecies) (FourSpecies, error) {
	denom := k*in.A + k*in.B + in.C + in.D
	if denom == 0 {
		return FourSpecies{}, fmt.Errorf("k=%g all concentrations zero: %w", k, ErrNoValidSolution)
	}
	x := (k*in.A*in.B - in.C*in.D) / denom
	limit := math.Min(in.A, in.B)
	if math.IsNaN(x) || x < -rootEpsilon || x > limit+rootEpsilon {
		return FourSpecies{}, fmt.Errorf("k=%g linear extent %g outside [0, %g]: %w", k, x, limit, ErrNoValidSolution)
	}
	return shift(in, math.Max(0, math.Min(x, limit))), nil
}

func shift(in FourSpecies, x float64) FourSpecies {
	return FourSpecies{
		A: in.A - x,
		B: in.B - x,
		C: in.C + x,
		D: in.D + x,
	}
}

type HomogeneousResult struct {
	Reactants float64
	Products  float64
}

// Homogeneous splits concentrations as reactant/(1+K) and product/(1+1/K).
func Homogeneous(k, reactant, product float64) HomogeneousResult {
	return HomogeneousResult{
		Reactants: reactant / (1 + k),
		Products:  product / (1 + 1/k),
	}
}

// Heterogeneous scales both sides by K.
func Heterogeneous(k, reactant, product float64) HomogeneousResult {
	return HomogeneousResult{
		Reactants: reactant * k,
		Products:  product * k,
	}
}
