package natural

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/n0madic/go-natural-lasso/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPathGenerated(t *testing.T) {
	X, y := sparseModel(3, 60, 8, 1)

	for _, m := range []Method{Natural, Organic} {
		t.Run(m.String(), func(t *testing.T) {
			est, err := New(m, WithNLambda(30))
			require.NoError(t, err)

			res, err := est.Path(context.Background(), X, y)
			require.NoError(t, err)
			require.Len(t, res.Lambdas, 30)
			require.Len(t, res.Fits, 30)
			require.Len(t, res.Estimates, 30)
			assert.Equal(t, m.String(), res.Method.String())

			for i, e := range res.Estimates {
				assert.Equal(t, res.Lambdas[i], e.Lambda)
				assert.Equal(t, res.Lambdas[i], res.Fits[i].Lambda)
				assert.GreaterOrEqual(t, e.Naive, 0.0)
				assert.GreaterOrEqual(t, e.Obj, e.Naive)
				assert.True(t, e.DFDefined())
				assert.GreaterOrEqual(t, e.DF, 0.0)
			}
			// Less regularization never increases the residual sum of squares.
			assert.LessOrEqual(t, res.Fits[29].RSS, res.Fits[0].RSS)
		})
	}
}

func TestPathNaturalObjectiveAtLambdaMax(t *testing.T) {
	X, y := sparseModel(4, 40, 5, 1)
	est, err := New(Natural, WithNLambda(5))
	require.NoError(t, err)

	res, err := est.Path(context.Background(), X, y)
	require.NoError(t, err)

	// The empty fit at lambda_max leaves the centered response as residual.
	first := res.Estimates[0]
	assert.Equal(t, 0.0, res.Fits[0].DF)
	assert.InDelta(t, first.Naive, first.Obj, 1e-12)
	assert.InDelta(t, first.Naive, first.DF, 1e-12)
}

func TestPathSingleExplicitLambda(t *testing.T) {
	X, y := sparseModel(5, 30, 4, 1)
	est, err := New(Natural, WithLambdas([]float64{0.2}))
	require.NoError(t, err)

	res, err := est.Path(context.Background(), X, y)
	require.NoError(t, err)
	require.Len(t, res.Fits, 1)
	require.Len(t, res.Estimates, 1)
	assert.Equal(t, 0.2, res.Estimates[0].Lambda)
	assert.True(t, res.Estimates[0].DFDefined())
}

func TestPathRejectsEmptyDesign(t *testing.T) {
	stub := &stubSolver{solve: meanOnly}
	est, err := New(Natural, WithSolver(stub))
	require.NoError(t, err)

	_, err = est.Path(context.Background(), emptyColumns{rows: 10}, make([]float64, 10))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = est.CrossValidate(context.Background(), emptyColumns{rows: 10}, make([]float64, 10))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, stub.callCount())
}

func TestPathInvalidData(t *testing.T) {
	X, y := sparseModel(6, 10, 3, 1)
	est, err := New(Natural)
	require.NoError(t, err)

	_, err = est.Path(context.Background(), X, y[:9])
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = est.Path(context.Background(), nil, y)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad := mat.DenseCopyOf(X)
	bad.Set(2, 1, math.NaN())
	_, err = est.Path(context.Background(), bad, y)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPathSolverFailure(t *testing.T) {
	cause := errors.New("factorization broke")
	stub := &stubSolver{solve: func(solver.Problem) ([]solver.Fit, error) { return nil, cause }}
	est, err := New(Natural, WithSolver(stub), WithNLambda(3))
	require.NoError(t, err)

	X, y := sparseModel(7, 20, 3, 1)
	_, err = est.Path(context.Background(), X, y)
	assert.ErrorIs(t, err, ErrSolverFailure)
	assert.ErrorIs(t, err, cause)
}

func TestPathSolverShortResult(t *testing.T) {
	stub := &stubSolver{solve: func(p solver.Problem) ([]solver.Fit, error) {
		fits, _ := meanOnly(p)
		return fits[:1], nil
	}}
	est, err := New(Natural, WithSolver(stub), WithNLambda(3))
	require.NoError(t, err)

	X, y := sparseModel(8, 20, 3, 1)
	_, err = est.Path(context.Background(), X, y)
	assert.ErrorIs(t, err, ErrSolverFailure)
}

func TestPathPassesConfiguration(t *testing.T) {
	stub := &stubSolver{solve: meanOnly}
	est, err := New(Organic, WithSolver(stub), WithLambdas([]float64{0.3, 0.1}),
		WithIntercept(false), WithStandardize(false))
	require.NoError(t, err)

	X, y := sparseModel(9, 12, 3, 1)
	_, err = est.Path(context.Background(), X, y)
	require.NoError(t, err)

	require.Len(t, stub.problems, 1)
	p := stub.problems[0]
	assert.Equal(t, solver.SquaredL1, p.Penalty)
	assert.Equal(t, []float64{0.3, 0.1}, p.Lambdas)
	assert.False(t, p.Intercept)
	assert.False(t, p.Standardize)
}

// emptyColumns is an n x 0 matrix, which mat.Dense cannot represent
type emptyColumns struct{ rows int }

func (e emptyColumns) Dims() (int, int)    { return e.rows, 0 }
func (e emptyColumns) At(i, j int) float64 { panic("emptyColumns: no elements") }
func (e emptyColumns) T() mat.Matrix       { return mat.Transpose{Matrix: e} }
