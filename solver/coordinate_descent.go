package solver

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CoordinateDescent is a warm-started cyclic coordinate-descent path solver.
// It holds only configuration and is safe for concurrent use.
type CoordinateDescent struct {
	tol     float64 // convergence threshold relative to the null deviance
	maxIter int     // maximum number of full sweeps per lambda
}

// Option configures a CoordinateDescent solver
type Option func(*CoordinateDescent)

// WithTolerance sets the convergence threshold
func WithTolerance(tol float64) Option {
	return func(cd *CoordinateDescent) {
		cd.tol = tol
	}
}

// WithMaxIter sets the maximum number of sweeps per lambda
func WithMaxIter(maxIter int) Option {
	return func(cd *CoordinateDescent) {
		cd.maxIter = maxIter
	}
}

// NewCoordinateDescent creates a solver with the given options
func NewCoordinateDescent(options ...Option) (*CoordinateDescent, error) {
	cd := &CoordinateDescent{
		tol:     1e-9,
		maxIter: 100000,
	}
	for _, opt := range options {
		opt(cd)
	}
	if !(cd.tol > 0) {
		return nil, fmt.Errorf("tolerance must be positive, got %g", cd.tol)
	}
	if cd.maxIter <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", cd.maxIter)
	}
	return cd, nil
}

// Solve fits every lambda of the problem, warm starting each fit from the
// previous solution.
func (cd *CoordinateDescent) Solve(ctx context.Context, p Problem) ([]Fit, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	d := prepare(p.X, p.Y, p.Intercept, p.Standardize)
	beta := make([]float64, d.p)
	resid := make([]float64, d.n)
	copy(resid, d.y)

	nullDev := floats.Dot(d.y, d.y) / float64(d.n)
	if nullDev <= 0 {
		nullDev = 1
	}
	thresh := cd.tol * nullDev

	fits := make([]Fit, 0, len(p.Lambdas))
	for _, lambda := range p.Lambdas {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSolverFailure, err)
		}
		if err := cd.descend(d, p.Penalty, lambda, beta, resid, thresh); err != nil {
			return nil, fmt.Errorf("lambda %g: %w", lambda, err)
		}
		fits = append(fits, d.fit(lambda, beta, resid))
	}
	return fits, nil
}

// descend runs sweeps until the largest weighted squared coefficient change
// drops below thresh. beta and resid are updated in place.
func (cd *CoordinateDescent) descend(d *design, penalty Penalty, lambda float64, beta, resid []float64, thresh float64) error {
	nf := float64(d.n)
	for iter := 0; iter < cd.maxIter; iter++ {
		maxDelta := 0.0
		l1 := floats.Norm(beta, 1)

		for j := 0; j < d.p; j++ {
			a := d.colSq[j] / nf
			if a == 0 {
				continue
			}
			col := d.cols[j]
			old := beta[j]
			z := floats.Dot(col, resid)/nf + a*old

			var next float64
			switch penalty {
			case L1:
				next = softThreshold(z, lambda) / a
			case SquaredL1:
				rest := math.Max(l1-math.Abs(old), 0)
				next = softThreshold(z, 2*lambda*rest) / (a + 2*lambda)
			}
			if next == old {
				continue
			}
			if math.IsNaN(next) || math.IsInf(next, 0) {
				return fmt.Errorf("%w: non-finite coefficient %d at sweep %d", ErrSolverFailure, j, iter)
			}

			diff := next - old
			floats.AddScaled(resid, -diff, col)
			l1 += math.Abs(next) - math.Abs(old)
			beta[j] = next
			if w := a * diff * diff; w > maxDelta {
				maxDelta = w
			}
		}

		if maxDelta < thresh {
			return nil
		}
	}
	return fmt.Errorf("%w: no convergence after %d sweeps", ErrSolverFailure, cd.maxIter)
}

// softThreshold applies S(z, t) = sign(z) * max(|z| - t, 0)
func softThreshold(z, t float64) float64 {
	if z > t {
		return z - t
	}
	if z < -t {
		return z + t
	}
	return 0
}
