package natural

import (
	"fmt"
	"math"

	"github.com/n0madic/go-natural-lasso/solver"
	"gonum.org/v1/gonum/mat"
)

// LambdaMax returns the smallest lambda at which the all-zero lasso fit is
// optimal, max_j |x_j'y| / n on the design as the solver sees it.
func LambdaMax(X mat.Matrix, y []float64, intercept, standardize bool) (float64, error) {
	if _, _, err := validateData(X, y); err != nil {
		return 0, err
	}
	lmax, err := solver.MaxCorrelation(X, y, intercept, standardize)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !(lmax > 0) {
		return 0, fmt.Errorf("%w: response is uncorrelated with every column, lambda_max = %g", ErrInvalidInput, lmax)
	}
	return lmax, nil
}

// GeneratePath returns nlam values log-spaced from lambdaMax down to
// lambdaMax*flmin inclusive, strictly decreasing. flmin is ignored when
// nlam is 1.
func GeneratePath(lambdaMax float64, nlam int, flmin float64) ([]float64, error) {
	if nlam < 1 {
		return nil, fmt.Errorf("%w: path length must be at least 1, got %d", ErrInvalidInput, nlam)
	}
	if !(lambdaMax > 0) || math.IsInf(lambdaMax, 0) {
		return nil, fmt.Errorf("%w: lambda_max must be positive and finite, got %g", ErrInvalidInput, lambdaMax)
	}
	if nlam == 1 {
		return []float64{lambdaMax}, nil
	}
	if !(flmin > 0 && flmin < 1) {
		return nil, fmt.Errorf("%w: lambda ratio must be in (0, 1), got %g", ErrInvalidInput, flmin)
	}

	path := make([]float64, nlam)
	logRatio := math.Log(flmin)
	for i := range path {
		path[i] = lambdaMax * math.Exp(float64(i)/float64(nlam-1)*logRatio)
	}
	path[0] = lambdaMax
	path[nlam-1] = lambdaMax * flmin

	for i := 1; i < nlam; i++ {
		if !(path[i] < path[i-1]) || !(path[i] > 0) {
			return nil, fmt.Errorf("%w: %d points cannot be strictly decreasing over ratio %g", ErrInvalidInput, nlam, flmin)
		}
	}
	return path, nil
}

// validatePath checks a caller-supplied path. Order is not checked; the path
// is used as given.
func validatePath(lambdas []float64) error {
	if len(lambdas) == 0 {
		return fmt.Errorf("%w: empty lambda path", ErrInvalidInput)
	}
	for i, lam := range lambdas {
		if !(lam > 0) || math.IsInf(lam, 0) {
			return fmt.Errorf("%w: lambda[%d] = %g must be positive and finite", ErrInvalidInput, i, lam)
		}
	}
	return nil
}

// LambdaPath returns the configured explicit path, or generates one from the
// data.
func (e *Estimator) LambdaPath(X mat.Matrix, y []float64) ([]float64, error) {
	if len(e.lambdas) > 0 {
		if _, _, err := validateData(X, y); err != nil {
			return nil, err
		}
		out := make([]float64, len(e.lambdas))
		copy(out, e.lambdas)
		return out, nil
	}
	lmax, err := LambdaMax(X, y, e.intercept, e.standardize)
	if err != nil {
		return nil, err
	}
	return GeneratePath(lmax, e.nlam, e.flmin)
}
