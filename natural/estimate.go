package natural

import (
	"errors"
	"fmt"
	"math"

	"github.com/n0madic/go-natural-lasso/solver"
)

// Estimate holds the variance estimates for one fit
type Estimate struct {
	Lambda float64
	Obj    float64 // objective-based estimator, natural or organic per Method
	Naive  float64 // rss/n
	DF     float64 // rss/(n - df); NaN when df >= n
}

// DFDefined reports whether the degrees-of-freedom estimator is defined
func (e Estimate) DFDefined() bool {
	return !math.IsNaN(e.DF)
}

// checkRSS clamps tiny negative round-off to zero
func checkRSS(rss float64) (float64, error) {
	if math.IsNaN(rss) || math.IsInf(rss, 0) {
		return 0, fmt.Errorf("%w: residual sum of squares %g is not finite", ErrInvalidInput, rss)
	}
	return math.Max(rss, 0), nil
}

func checkN(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: sample size must be positive, got %d", ErrInvalidInput, n)
	}
	return nil
}

// SigmaNaive returns rss/n
func SigmaNaive(rss float64, n int) (float64, error) {
	if err := checkN(n); err != nil {
		return 0, err
	}
	rss, err := checkRSS(rss)
	if err != nil {
		return 0, err
	}
	return rss / float64(n), nil
}

// SigmaDF returns rss/(n - df). It fails with ErrDegenerateFit when df >= n
func SigmaDF(rss float64, n int, df float64) (float64, error) {
	if err := checkN(n); err != nil {
		return 0, err
	}
	if math.IsNaN(df) || df < 0 {
		return 0, fmt.Errorf("%w: degrees of freedom must be nonnegative, got %g", ErrInvalidInput, df)
	}
	rss, err := checkRSS(rss)
	if err != nil {
		return 0, err
	}
	if df >= float64(n) {
		return math.NaN(), fmt.Errorf("%w: df=%g, n=%d", ErrDegenerateFit, df, n)
	}
	return rss / (float64(n) - df), nil
}

// SigmaObj returns rss/n + 2*lambda*P(beta), where P is the method's penalty
// term.
func (m Method) SigmaObj(rss float64, n int, lambda float64, beta []float64) (float64, error) {
	if !m.valid() {
		return 0, fmt.Errorf("%w: unknown method", ErrInvalidInput)
	}
	if !(lambda > 0) || math.IsInf(lambda, 0) {
		return 0, fmt.Errorf("%w: lambda must be positive and finite, got %g", ErrInvalidInput, lambda)
	}
	naive, err := SigmaNaive(rss, n)
	if err != nil {
		return 0, err
	}
	return naive + 2*lambda*m.PenaltyTerm(beta), nil
}

// Estimate computes all estimators for a fit on n observations. A degenerate
// degrees-of-freedom estimator is reported as NaN without failing the others.
func (m Method) Estimate(fit solver.Fit, n int) (Estimate, error) {
	obj, err := m.SigmaObj(fit.RSS, n, fit.Lambda, fit.Beta)
	if err != nil {
		return Estimate{}, err
	}
	naive, err := SigmaNaive(fit.RSS, n)
	if err != nil {
		return Estimate{}, err
	}
	df, err := SigmaDF(fit.RSS, n, fit.DF)
	if err != nil {
		if !errors.Is(err, ErrDegenerateFit) {
			return Estimate{}, err
		}
		df = math.NaN()
	}
	return Estimate{Lambda: fit.Lambda, Obj: obj, Naive: naive, DF: df}, nil
}
