package chem

import "errors"

// Domain errors for equilibrium calculations.
var (
	// ErrNoRealSolution indicates a negative discriminant in the two-species solve.
	ErrNoRealSolution = errors.New("chem: no real solution for equilibrium concentrations")

	// ErrNoValidSolution indicates no root of the four-species solve lies in the physical range.
	ErrNoValidSolution = errors.New("chem: no valid equilibrium solution")

	// ErrInvalidInput indicates a value rejected at the input boundary.
	ErrInvalidInput = errors.New("chem: invalid input")
)
