// Package chem provides the closed-form equilibrium calculations used by the
// lab's solver widgets.
//
//   - [SolveTwoSpecies]: A <=> B from K and initial concentrations
//   - [SolveFourSpecies]: A + B <=> C + D with unit coefficients
//   - [ReactionQuotient]: Q from concentrations and stoichiometric coefficients
//   - [Advise]: Le Chatelier explanation for a named perturbation
//
// # Failure Policy
//
// Nothing in this package is fatal. [SolveTwoSpecies] returns the initial
// values together with [ErrNoRealSolution] so callers can keep displaying
// them. [SolveFourSpecies] returns [ErrNoValidSolution] and callers hold the
// last good result:
//
//	res, err := chem.SolveFourSpecies(k, in)
//	if errors.Is(err, chem.ErrNoValidSolution) {
//	    // keep the previous chart
//	}
package chem
