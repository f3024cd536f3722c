package natural

import (
	"errors"

	"github.com/n0madic/go-natural-lasso/solver"
)

var (
	// ErrInvalidInput is returned for malformed data or configuration. No
	// solver call is made when it is returned.
	ErrInvalidInput = errors.New("natural: invalid input")

	// ErrSolverFailure marks a failed solver call. It is the solver package
	// sentinel, so errors from either layer match it.
	ErrSolverFailure = solver.ErrSolverFailure

	// ErrDegenerateFit is returned by SigmaDF when the fitted degrees of
	// freedom reach the sample size.
	ErrDegenerateFit = errors.New("natural: degenerate fit, degrees of freedom >= n")
)
