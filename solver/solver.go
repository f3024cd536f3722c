// Package solver defines the penalized least-squares path solver consumed by
// the variance estimators, together with a coordinate-descent implementation.
//
// Two penalties are supported:
//
//   - L1:        (1/2n)||y - Xb||^2 + lambda*||b||_1
//   - SquaredL1: (1/2n)||y - Xb||^2 + lambda*||b||_1^2
//
// Coefficients are always reported on the scale of the caller's design matrix,
// even when the columns are standardized internally.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSolverFailure is returned when a fit path cannot be computed
	ErrSolverFailure = errors.New("solver: failed to compute fit")

	// ErrInvalidProblem is returned for malformed problems (shape, lambda, penalty)
	ErrInvalidProblem = errors.New("solver: invalid problem")
)

// Penalty selects the coefficient penalty
type Penalty int

const (
	// L1 is the lasso penalty lambda*||b||_1
	L1 Penalty = iota
	// SquaredL1 is the organic lasso penalty lambda*||b||_1^2.
	SquaredL1
)

// String returns the penalty name
func (p Penalty) String() string {
	switch p {
	case L1:
		return "l1"
	case SquaredL1:
		return "squared-l1"
	default:
		return fmt.Sprintf("penalty(%d)", int(p))
	}
}

// Problem describes one path fit
type Problem struct {
	X           mat.Matrix // n x p design, read only
	Y           []float64  // length n response, read only
	Lambdas     []float64  // fitted in the given order
	Penalty     Penalty
	Intercept   bool // center X and y, report an intercept
	Standardize bool // scale centered columns to unit mean square before fitting
}

func (p Problem) validate() error {
	if p.X == nil {
		return fmt.Errorf("%w: nil design matrix", ErrInvalidProblem)
	}
	n, cols := p.X.Dims()
	if n == 0 || cols == 0 {
		return fmt.Errorf("%w: empty design matrix %dx%d", ErrInvalidProblem, n, cols)
	}
	if len(p.Y) != n {
		return fmt.Errorf("%w: response length %d != rows %d", ErrInvalidProblem, len(p.Y), n)
	}
	if len(p.Lambdas) == 0 {
		return fmt.Errorf("%w: empty lambda path", ErrInvalidProblem)
	}
	for i, lam := range p.Lambdas {
		if !(lam > 0) || math.IsInf(lam, 0) {
			return fmt.Errorf("%w: lambda[%d] = %g is not a positive finite value", ErrInvalidProblem, i, lam)
		}
	}
	if p.Penalty != L1 && p.Penalty != SquaredL1 {
		return fmt.Errorf("%w: unknown penalty %v", ErrInvalidProblem, p.Penalty)
	}
	return nil
}

// Fit is the solution at a single lambda
type Fit struct {
	Lambda    float64
	Beta      []float64 // original-scale coefficients, length p
	Intercept float64   // zero unless the problem was centered
	DF        float64   // number of nonzero coefficients
	RSS       float64   // residual sum of squares on the fitted data
}

// L1Norm returns ||Beta||_1
func (f Fit) L1Norm() float64 {
	return floats.Norm(f.Beta, 1)
}

// Predict returns Intercept + X*Beta for every row of X
func (f Fit) Predict(X mat.Matrix) []float64 {
	n, p := X.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := f.Intercept
		for j := 0; j < p; j++ {
			if f.Beta[j] != 0 {
				sum += X.At(i, j) * f.Beta[j]
			}
		}
		out[i] = sum
	}
	return out
}

// Solver computes penalized fits along a lambda path
type Solver interface {
	// Solve returns one Fit per entry of p.Lambdas, in the same order.
	Solve(ctx context.Context, p Problem) ([]Fit, error)
}
