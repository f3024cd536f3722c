package natural

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// validateData checks shapes and finiteness of X and y and returns (n, p)
func validateData(X mat.Matrix, y []float64) (int, int, error) {
	if X == nil {
		return 0, 0, fmt.Errorf("%w: nil design matrix", ErrInvalidInput)
	}
	n, p := X.Dims()
	if p == 0 {
		return 0, 0, fmt.Errorf("%w: design matrix has no columns", ErrInvalidInput)
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: design matrix has no rows", ErrInvalidInput)
	}
	if len(y) != n {
		return 0, 0, fmt.Errorf("%w: response length %d != rows %d", ErrInvalidInput, len(y), n)
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("%w: y[%d] is not finite", ErrInvalidInput, i)
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			if v := X.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, 0, fmt.Errorf("%w: X[%d,%d] is not finite", ErrInvalidInput, i, j)
			}
		}
	}
	return n, p, nil
}

// subset copies the given rows of X and y
func subset(X mat.Matrix, y []float64, rows []int) (*mat.Dense, []float64) {
	_, p := X.Dims()
	Xs := mat.NewDense(len(rows), p, nil)
	ys := make([]float64, len(rows))
	for k, i := range rows {
		for j := 0; j < p; j++ {
			Xs.Set(k, j, X.At(i, j))
		}
		ys[k] = y[i]
	}
	return Xs, ys
}

// meanSquaredError returns mean((y - pred)^2)
func meanSquaredError(y, pred []float64) float64 {
	sum := 0.0
	for i := range y {
		d := y[i] - pred[i]
		sum += d * d
	}
	return sum / float64(len(y))
}
