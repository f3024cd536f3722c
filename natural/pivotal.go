package natural

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/n0madic/go-natural-lasso/solver"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PivotalResult holds the two pivotal tuning parameters of the organic lasso
// and the variance estimates obtained by fitting at each of them.
type PivotalResult struct {
	Lambda1    float64 // log(p)/n
	Lambda2    float64 // Monte Carlo estimate of ||X'e||_inf^2 / n^2
	Replicates int

	Fit1      solver.Fit
	Fit2      solver.Fit
	Estimate1 Estimate
	Estimate2 Estimate
}

// PivotalLambdas returns lambda1 = log(p)/n and the Monte Carlo lambda2. The
// draws are seeded, so the same seed reproduces lambda2 bit for bit.
func (e *Estimator) PivotalLambdas(ctx context.Context, X mat.Matrix) (float64, float64, error) {
	if X == nil {
		return 0, 0, fmt.Errorf("%w: nil design matrix", ErrInvalidInput)
	}
	n, p := X.Dims()
	if _, _, err := validateData(X, make([]float64, n)); err != nil {
		return 0, 0, err
	}
	if p < 2 {
		return 0, 0, fmt.Errorf("%w: pivotal tuning needs at least 2 columns, got %d", ErrInvalidInput, p)
	}

	lambda1 := math.Log(float64(p)) / float64(n)
	lambda2, err := e.monteCarloLambda(ctx, solver.Design(X, e.intercept, e.standardize))
	if err != nil {
		return 0, 0, err
	}
	return lambda1, lambda2, nil
}

// Pivotal computes both pivotal lambdas and fits the organic lasso at each,
// returning the objective-based estimates sig_obj_1 and sig_obj_2.
func (e *Estimator) Pivotal(ctx context.Context, X mat.Matrix, y []float64) (*PivotalResult, error) {
	if !e.method.organic() {
		return nil, fmt.Errorf("%w: pivotal tuning applies to the organic lasso, not %s", ErrInvalidInput, e.method)
	}
	n, _, err := validateData(X, y)
	if err != nil {
		return nil, err
	}
	lambda1, lambda2, err := e.PivotalLambdas(ctx, X)
	if err != nil {
		return nil, err
	}

	lambdas := [2]float64{lambda1, lambda2}
	var fits [2]solver.Fit
	var ests [2]Estimate
	g, gctx := errgroup.WithContext(ctx)
	for i := range lambdas {
		i := i
		g.Go(func() error {
			fit, err := e.solve(gctx, X, y, lambdas[i:i+1])
			if err != nil {
				return fmt.Errorf("lambda%d = %g: %w", i+1, lambdas[i], err)
			}
			est, err := e.method.Estimate(fit[0], n)
			if err != nil {
				return fmt.Errorf("%w: lambda%d = %g: %w", ErrSolverFailure, i+1, lambdas[i], err)
			}
			fits[i], ests[i] = fit[0], est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info().
		Float64("lambda1", lambda1).
		Float64("lambda2", lambda2).
		Float64("sig_obj_1", ests[0].Obj).
		Float64("sig_obj_2", ests[1].Obj).
		Msg("Pivotal estimates computed")

	return &PivotalResult{
		Lambda1:    lambda1,
		Lambda2:    lambda2,
		Replicates: e.reps,
		Fit1:       fits[0],
		Fit2:       fits[1],
		Estimate1:  ests[0],
		Estimate2:  ests[1],
	}, nil
}

// monteCarloLambda draws e ~ N(0, I_n) per replicate and reduces the values
// (max_j |x_j'e| / n)^2 to their mean or configured quantile. Every replicate
// owns a generator seeded from a sequence drawn up front, so results do not
// depend on scheduling.
func (e *Estimator) monteCarloLambda(ctx context.Context, D *mat.Dense) (float64, error) {
	n, _ := D.Dims()
	seeds := make([]int64, e.reps)
	master := rand.New(rand.NewSource(e.seed))
	for r := range seeds {
		seeds[r] = master.Int63()
	}

	values := make([]float64, e.reps)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for r := range values {
		r := r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[r]))
			noise := mat.NewVecDense(n, nil)
			for i := 0; i < n; i++ {
				noise.SetVec(i, rng.NormFloat64())
			}
			var xte mat.VecDense
			xte.MulVec(D.T(), noise)
			m := floats.Norm(xte.RawVector().Data, math.Inf(1)) / float64(n)
			values[r] = m * m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var lambda2 float64
	if e.quantile > 0 {
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		lambda2 = stat.Quantile(e.quantile, stat.Empirical, sorted, nil)
	} else {
		mean, err := stats.Mean(values)
		if err != nil {
			return 0, fmt.Errorf("%w: monte carlo mean: %v", ErrInvalidInput, err)
		}
		lambda2 = mean
	}

	e.logger.Debug().
		Int("replicates", e.reps).
		Float64("quantile", e.quantile).
		Float64("lambda2", lambda2).
		Msg("Monte Carlo lambda computed")

	if !(lambda2 > 0) {
		return 0, fmt.Errorf("%w: monte carlo lambda is %g; design has no variation", ErrInvalidInput, lambda2)
	}
	return lambda2, nil
}
