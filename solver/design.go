package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// design is the column-major working copy the solver iterates over
type design struct {
	n, p   int
	cols   [][]float64 // transformed columns
	means  []float64   // column means removed (zero without intercept)
	scales []float64   // column scales divided out (one without standardization)
	colSq  []float64   // squared norms of transformed columns
	y      []float64   // centered response when intercept is set
	yMean  float64
}

func prepare(X mat.Matrix, y []float64, intercept, standardize bool) *design {
	n, p := X.Dims()
	d := &design{
		n:      n,
		p:      p,
		cols:   make([][]float64, p),
		means:  make([]float64, p),
		scales: make([]float64, p),
		colSq:  make([]float64, p),
		y:      make([]float64, n),
	}

	for j := 0; j < p; j++ {
		col := make([]float64, n)
		mat.Col(col, j, X)
		if intercept {
			d.means[j] = floats.Sum(col) / float64(n)
			floats.AddConst(-d.means[j], col)
		}
		d.scales[j] = 1
		if standardize {
			// Constant columns keep scale one and end up with a zero coefficient.
			if s := math.Sqrt(floats.Dot(col, col) / float64(n)); s > 1e-12 {
				d.scales[j] = s
				floats.Scale(1/s, col)
			}
		}
		d.cols[j] = col
		d.colSq[j] = floats.Dot(col, col)
	}

	copy(d.y, y)
	if intercept {
		d.yMean = floats.Sum(d.y) / float64(n)
		floats.AddConst(-d.yMean, d.y)
	}
	return d
}

// fit converts the working coefficients and residual into a Fit
func (d *design) fit(lambda float64, beta, resid []float64) Fit {
	orig := make([]float64, d.p)
	df := 0
	for j, b := range beta {
		if b == 0 {
			continue
		}
		orig[j] = b / d.scales[j]
		df++
	}
	return Fit{
		Lambda:    lambda,
		Beta:      orig,
		Intercept: d.yMean - floats.Dot(d.means, orig),
		DF:        float64(df),
		RSS:       floats.Dot(resid, resid),
	}
}

// Design returns a copy of X transformed the way Solve transforms it before
// fitting: columns centered when intercept is set, then scaled to unit mean
// square when standardize is set.
func Design(X mat.Matrix, intercept, standardize bool) *mat.Dense {
	n, p := X.Dims()
	d := prepare(X, make([]float64, n), intercept, standardize)
	out := mat.NewDense(n, p, nil)
	for j, col := range d.cols {
		out.SetCol(j, col)
	}
	return out
}

// MaxCorrelation returns max_j |x_j' y| / n on the transformed design. For the
// L1 penalty it is the smallest lambda at which the all-zero fit is optimal.
func MaxCorrelation(X mat.Matrix, y []float64, intercept, standardize bool) (float64, error) {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return 0, fmt.Errorf("%w: empty design matrix %dx%d", ErrInvalidProblem, n, p)
	}
	if len(y) != n {
		return 0, fmt.Errorf("%w: response length %d != rows %d", ErrInvalidProblem, len(y), n)
	}
	d := prepare(X, y, intercept, standardize)
	best := 0.0
	for _, col := range d.cols {
		if c := math.Abs(floats.Dot(col, d.y)); c > best {
			best = c
		}
	}
	return best / float64(n), nil
}
