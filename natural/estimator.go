package natural

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/n0madic/go-natural-lasso/solver"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// Estimator runs path, cross-validation and pivotal variance estimation for
// one Method. It holds only configuration.
type Estimator struct {
	method      Method
	solver      solver.Solver
	nlam        int       // generated path length
	flmin       float64   // smallest/largest lambda ratio of a generated path
	lambdas     []float64 // explicit path, used verbatim when set
	nfold       int       // number of CV folds
	foldIDs     []int     // explicit fold assignment, overrides nfold
	seed        int64     // seed for fold assignment and Monte Carlo draws
	reps        int       // Monte Carlo replicates for the pivotal lambda
	quantile    float64   // 0 averages the replicates, otherwise empirical quantile
	workers     int       // maximum concurrent folds or replicates
	intercept   bool
	standardize bool
	logger      zerolog.Logger
}

// Option configures an Estimator
type Option func(*Estimator)

// WithNLambda sets the length of a generated lambda path
func WithNLambda(nlam int) Option {
	return func(e *Estimator) {
		e.nlam = nlam
	}
}

// WithLambdaMinRatio sets the ratio of the smallest to the largest lambda of
// a generated path.
func WithLambdaMinRatio(flmin float64) Option {
	return func(e *Estimator) {
		e.flmin = flmin
	}
}

// WithLambdas sets an explicit lambda path, used in the given order
func WithLambdas(lambdas []float64) Option {
	return func(e *Estimator) {
		e.lambdas = make([]float64, len(lambdas))
		copy(e.lambdas, lambdas)
	}
}

// WithFolds sets the number of cross-validation folds
func WithFolds(k int) Option {
	return func(e *Estimator) {
		e.nfold = k
	}
}

// WithFoldIDs sets an explicit fold assignment, one id in [0, K) per
// observation. Every fold must be non-empty and fold sizes may differ by at
// most one, as for a generated assignment.
func WithFoldIDs(ids []int) Option {
	return func(e *Estimator) {
		e.foldIDs = make([]int, len(ids))
		copy(e.foldIDs, ids)
	}
}

// WithSeed sets the seed for fold assignment and Monte Carlo draws
func WithSeed(seed int64) Option {
	return func(e *Estimator) {
		e.seed = seed
	}
}

// WithReplicates sets the number of Monte Carlo replicates for the pivotal lambda
func WithReplicates(reps int) Option {
	return func(e *Estimator) {
		e.reps = reps
	}
}

// WithQuantile makes the pivotal lambda an empirical quantile of the
// replicates instead of their mean. Zero restores the mean.
func WithQuantile(q float64) Option {
	return func(e *Estimator) {
		e.quantile = q
	}
}

// WithWorkers bounds the number of folds or replicates evaluated concurrently
func WithWorkers(workers int) Option {
	return func(e *Estimator) {
		e.workers = workers
	}
}

// WithIntercept enables or disables centering and the fitted intercept
func WithIntercept(intercept bool) Option {
	return func(e *Estimator) {
		e.intercept = intercept
	}
}

// WithStandardize enables or disables internal column scaling
func WithStandardize(standardize bool) Option {
	return func(e *Estimator) {
		e.standardize = standardize
	}
}

// WithSolver replaces the default coordinate-descent solver
func WithSolver(s solver.Solver) Option {
	return func(e *Estimator) {
		e.solver = s
	}
}

// WithLogger sets the logger. The default discards everything
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Estimator) {
		e.logger = logger
	}
}

// New creates an Estimator for the given method
func New(method Method, options ...Option) (*Estimator, error) {
	if !method.valid() {
		return nil, fmt.Errorf("%w: unknown method", ErrInvalidInput)
	}

	e := &Estimator{
		method:      method,
		nlam:        100,
		flmin:       1e-2,
		nfold:       5,
		seed:        1,
		reps:        200,
		workers:     runtime.GOMAXPROCS(0),
		intercept:   true,
		standardize: true,
		logger:      zerolog.Nop(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.solver == nil {
		cd, err := solver.NewCoordinateDescent()
		if err != nil {
			return nil, err
		}
		e.solver = cd
	}

	switch {
	case e.nlam < 1:
		return nil, fmt.Errorf("%w: path length must be at least 1, got %d", ErrInvalidInput, e.nlam)
	case e.nlam > 1 && !(e.flmin > 0 && e.flmin < 1):
		return nil, fmt.Errorf("%w: lambda ratio must be in (0, 1), got %g", ErrInvalidInput, e.flmin)
	case e.nfold < 2:
		return nil, fmt.Errorf("%w: fold count must be at least 2, got %d", ErrInvalidInput, e.nfold)
	case e.reps < 1:
		return nil, fmt.Errorf("%w: replicates must be positive, got %d", ErrInvalidInput, e.reps)
	case math.IsNaN(e.quantile) || e.quantile < 0 || e.quantile > 1:
		return nil, fmt.Errorf("%w: quantile must be in [0, 1], got %g", ErrInvalidInput, e.quantile)
	case e.workers < 1:
		return nil, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidInput, e.workers)
	}
	if e.lambdas != nil {
		if err := validatePath(e.lambdas); err != nil {
			return nil, err
		}
	}

	e.logger = e.logger.With().
		Str("component", "natural").
		Str("method", method.String()).
		Logger()

	return e, nil
}

// Method returns the estimator family
func (e *Estimator) Method() Method {
	return e.method
}

// solve calls the solver and normalizes its errors to ErrSolverFailure
func (e *Estimator) solve(ctx context.Context, X mat.Matrix, y []float64, lambdas []float64) ([]solver.Fit, error) {
	fits, err := e.solver.Solve(ctx, solver.Problem{
		X:           X,
		Y:           y,
		Lambdas:     lambdas,
		Penalty:     e.method.penalty,
		Intercept:   e.intercept,
		Standardize: e.standardize,
	})
	if err != nil {
		if errors.Is(err, ErrSolverFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSolverFailure, err)
	}
	if len(fits) != len(lambdas) {
		return nil, fmt.Errorf("%w: %d fits returned for %d lambdas", ErrSolverFailure, len(fits), len(lambdas))
	}
	_, p := X.Dims()
	for i, fit := range fits {
		if len(fit.Beta) != p {
			return nil, fmt.Errorf("%w: fit %d has %d coefficients, want %d", ErrSolverFailure, i, len(fit.Beta), p)
		}
	}
	return fits, nil
}
