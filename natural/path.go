package natural

import (
	"context"
	"fmt"

	"github.com/n0madic/go-natural-lasso/solver"
	"gonum.org/v1/gonum/mat"
)

// PathResult holds one fit and one estimate per lambda, in path order
type PathResult struct {
	Method    Method
	Lambdas   []float64
	Fits      []solver.Fit
	Estimates []Estimate
}

// Path fits the whole lambda path on X, y and computes the variance
// estimators at every point.
func (e *Estimator) Path(ctx context.Context, X mat.Matrix, y []float64) (*PathResult, error) {
	n, _, err := validateData(X, y)
	if err != nil {
		return nil, err
	}
	lambdas, err := e.LambdaPath(X, y)
	if err != nil {
		return nil, err
	}

	fits, err := e.solve(ctx, X, y, lambdas)
	if err != nil {
		return nil, err
	}

	estimates := make([]Estimate, len(fits))
	for i, fit := range fits {
		est, err := e.method.Estimate(fit, n)
		if err != nil {
			return nil, fmt.Errorf("%w: lambda %g: %w", ErrSolverFailure, fit.Lambda, err)
		}
		estimates[i] = est
	}

	e.logger.Debug().
		Int("n", n).
		Int("nlam", len(lambdas)).
		Float64("lambda_max", lambdas[0]).
		Msg("Path fitted")

	return &PathResult{
		Method:    e.method,
		Lambdas:   lambdas,
		Fits:      fits,
		Estimates: estimates,
	}, nil
}
