package natural

import (
	"context"
	"math/rand"
	"sync"

	"github.com/n0madic/go-natural-lasso/solver"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// sparseModel draws X with standard normal entries and y = 3*x0 - 2*x1 + sigma*e
func sparseModel(seed int64, n, p int, sigma float64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := mat.NewDense(n, p, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		y[i] = 3*X.At(i, 0) - 2*X.At(i, 1) + sigma*rng.NormFloat64()
	}
	return X, y
}

// stubSolver counts calls and delegates to solve
type stubSolver struct {
	mu       sync.Mutex
	calls    int
	problems []solver.Problem
	solve    func(p solver.Problem) ([]solver.Fit, error)
}

func (s *stubSolver) Solve(_ context.Context, p solver.Problem) ([]solver.Fit, error) {
	s.mu.Lock()
	s.calls++
	s.problems = append(s.problems, p)
	s.mu.Unlock()
	return s.solve(p)
}

func (s *stubSolver) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// meanOnly fits the intercept only, identically for every lambda
func meanOnly(p solver.Problem) ([]solver.Fit, error) {
	_, cols := p.X.Dims()
	mean := floats.Sum(p.Y) / float64(len(p.Y))
	rss := 0.0
	for _, v := range p.Y {
		rss += (v - mean) * (v - mean)
	}
	fits := make([]solver.Fit, len(p.Lambdas))
	for i, lam := range p.Lambdas {
		fits[i] = solver.Fit{Lambda: lam, Beta: make([]float64, cols), Intercept: mean, RSS: rss}
	}
	return fits, nil
}
