package natural

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/n0madic/go-natural-lasso/solver"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// CVPoint is one point of the cross-validation curve
type CVPoint struct {
	Lambda float64
	Mean   float64 // mean held-out squared error across folds
	SE     float64 // standard error of the fold errors
}

// CVResult is the outcome of K-fold cross-validation
type CVResult struct {
	Method     Method
	Curve      []CVPoint   // one point per lambda, in path order
	FoldErrors [][]float64 // [fold][lambda] held-out mean squared error
	FoldIDs    []int       // fold of every observation
	Folds      int

	Index     int     // position of the selected lambda in Curve
	Lambda    float64 // selected lambda
	Lambda1SE float64 // largest lambda within one SE of the minimum, informational
	Fit       solver.Fit
	Estimate  Estimate
}

// CrossValidate runs K-fold cross-validation over the lambda path, selects
// the lambda with the smallest mean held-out error (ties go to the smaller
// lambda) and refits on all of X, y at that lambda. Folds run concurrently;
// any fold failure aborts the call.
func (e *Estimator) CrossValidate(ctx context.Context, X mat.Matrix, y []float64) (*CVResult, error) {
	n, _, err := validateData(X, y)
	if err != nil {
		return nil, err
	}
	lambdas, err := e.LambdaPath(X, y)
	if err != nil {
		return nil, err
	}
	ids, k, err := e.folds(n)
	if err != nil {
		return nil, err
	}
	train, test := foldRows(ids, k)

	foldErrs := make([][]float64, k)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for f := 0; f < k; f++ {
		f := f
		g.Go(func() error {
			errs, err := e.heldOutErrors(gctx, X, y, lambdas, train[f], test[f])
			if err != nil {
				return fmt.Errorf("fold %d: %w", f, err)
			}
			foldErrs[f] = errs
			e.logger.Debug().
				Int("fold", f).
				Int("train", len(train[f])).
				Int("test", len(test[f])).
				Msg("Fold evaluated")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curve, err := buildCurve(lambdas, foldErrs)
	if err != nil {
		return nil, err
	}
	best, err := selectIndex(curve)
	if err != nil {
		return nil, err
	}
	lambda := curve[best].Lambda

	fits, err := e.solve(ctx, X, y, []float64{lambda})
	if err != nil {
		return nil, fmt.Errorf("refit at lambda %g: %w", lambda, err)
	}
	est, err := e.method.Estimate(fits[0], n)
	if err != nil {
		return nil, fmt.Errorf("%w: refit at lambda %g: %w", ErrSolverFailure, lambda, err)
	}

	e.logger.Info().
		Int("folds", k).
		Int("nlam", len(lambdas)).
		Float64("lambda", lambda).
		Float64("cv_error", curve[best].Mean).
		Float64("sig_obj", est.Obj).
		Msg("Lambda selected by cross-validation")

	return &CVResult{
		Method:     e.method,
		Curve:      curve,
		FoldErrors: foldErrs,
		FoldIDs:    ids,
		Folds:      k,
		Index:      best,
		Lambda:     lambda,
		Lambda1SE:  oneSELambda(curve, best),
		Fit:        fits[0],
		Estimate:   est,
	}, nil
}

// heldOutErrors fits the path on the train rows and returns the mean squared
// prediction error on the test rows for every lambda.
func (e *Estimator) heldOutErrors(ctx context.Context, X mat.Matrix, y, lambdas []float64, train, test []int) ([]float64, error) {
	Xtr, ytr := subset(X, y, train)
	Xte, yte := subset(X, y, test)

	fits, err := e.solve(ctx, Xtr, ytr, lambdas)
	if err != nil {
		return nil, err
	}
	errs := make([]float64, len(fits))
	for i, fit := range fits {
		mse := meanSquaredError(yte, fit.Predict(Xte))
		if math.IsNaN(mse) || math.IsInf(mse, 0) {
			return nil, fmt.Errorf("%w: held-out error at lambda %g is %g", ErrSolverFailure, lambdas[i], mse)
		}
		errs[i] = mse
	}
	return errs, nil
}

// buildCurve reduces per-fold errors into the mean and standard error per
// lambda.
func buildCurve(lambdas []float64, foldErrs [][]float64) ([]CVPoint, error) {
	k := len(foldErrs)
	curve := make([]CVPoint, len(lambdas))
	column := make(stats.Float64Data, k)
	for l, lambda := range lambdas {
		for f := range foldErrs {
			column[f] = foldErrs[f][l]
		}
		mean, err := stats.Mean(column)
		if err != nil {
			return nil, fmt.Errorf("%w: cv mean at lambda %g: %v", ErrSolverFailure, lambda, err)
		}
		sd, err := stats.StandardDeviationSample(column)
		if err != nil {
			return nil, fmt.Errorf("%w: cv spread at lambda %g: %v", ErrSolverFailure, lambda, err)
		}
		curve[l] = CVPoint{Lambda: lambda, Mean: mean, SE: sd / math.Sqrt(float64(k))}
	}
	return curve, nil
}

// selectIndex returns the argmin of the mean error. Ties go to the smaller
// lambda; NaN means are never selected.
func selectIndex(curve []CVPoint) (int, error) {
	best := -1
	for i, pt := range curve {
		if math.IsNaN(pt.Mean) {
			continue
		}
		if best < 0 ||
			pt.Mean < curve[best].Mean ||
			(pt.Mean == curve[best].Mean && pt.Lambda < curve[best].Lambda) {
			best = i
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: cross-validation error is undefined at every lambda", ErrSolverFailure)
	}
	return best, nil
}

// oneSELambda returns the largest lambda whose mean error is within one
// standard error of the minimum.
func oneSELambda(curve []CVPoint, best int) float64 {
	limit := curve[best].Mean + curve[best].SE
	lambda := curve[best].Lambda
	for _, pt := range curve {
		if pt.Mean <= limit && pt.Lambda > lambda {
			lambda = pt.Lambda
		}
	}
	return lambda
}
