package solver

import (
	"context"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func benchmarkProblem(n, p int, penalty Penalty) Problem {
	rng := rand.New(rand.NewSource(123))
	X := mat.NewDense(n, p, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		y[i] = 3*X.At(i, 0) - 2*X.At(i, 1) + rng.NormFloat64()
	}
	lmax, _ := MaxCorrelation(X, y, true, true)
	lambdas := make([]float64, 50)
	for i := range lambdas {
		lambdas[i] = lmax * float64(50-i) / 50
	}
	return Problem{X: X, Y: y, Lambdas: lambdas, Penalty: penalty, Intercept: true, Standardize: true}
}

// BenchmarkSolveL1 measures a 50-point lasso path
func BenchmarkSolveL1(b *testing.B) {
	cd, err := NewCoordinateDescent()
	if err != nil {
		b.Fatalf("Failed to create solver: %v", err)
	}
	prob := benchmarkProblem(200, 50, L1)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := cd.Solve(context.Background(), prob); err != nil {
			b.Fatalf("Solve failed: %v", err)
		}
	}
}

// BenchmarkSolveSquaredL1 measures a 50-point organic lasso path
func BenchmarkSolveSquaredL1(b *testing.B) {
	cd, err := NewCoordinateDescent()
	if err != nil {
		b.Fatalf("Failed to create solver: %v", err)
	}
	prob := benchmarkProblem(200, 50, SquaredL1)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := cd.Solve(context.Background(), prob); err != nil {
			b.Fatalf("Solve failed: %v", err)
		}
	}
}
