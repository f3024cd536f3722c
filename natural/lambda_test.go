package natural

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGeneratePathMonotone(t *testing.T) {
	for _, nlam := range []int{2, 3, 10, 50, 100, 1000} {
		for _, flmin := range []float64{1e-4, 1e-2, 0.5, 0.99} {
			t.Run(fmt.Sprintf("nlam=%d/flmin=%g", nlam, flmin), func(t *testing.T) {
				path, err := GeneratePath(2.5, nlam, flmin)
				require.NoError(t, err)
				require.Len(t, path, nlam)
				assert.Equal(t, 2.5, path[0])
				assert.InDelta(t, 2.5*flmin, path[nlam-1], 1e-15)
				for i := 1; i < nlam; i++ {
					assert.Less(t, path[i], path[i-1])
					assert.Greater(t, path[i], 0.0)
				}
			})
		}
	}
}

func TestGeneratePathLogSpaced(t *testing.T) {
	path, err := GeneratePath(1, 5, 1e-4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.1, 0.01, 0.001, 0.0001}, path, 1e-12)
}

func TestGeneratePathSinglePoint(t *testing.T) {
	path, err := GeneratePath(0.7, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.7}, path)
}

func TestGeneratePathInvalid(t *testing.T) {
	tests := []struct {
		name  string
		lmax  float64
		nlam  int
		flmin float64
	}{
		{name: "zero length", lmax: 1, nlam: 0, flmin: 0.1},
		{name: "zero lambda max", lmax: 0, nlam: 10, flmin: 0.1},
		{name: "ratio one", lmax: 1, nlam: 10, flmin: 1},
		{name: "ratio zero", lmax: 1, nlam: 10, flmin: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GeneratePath(tt.lmax, tt.nlam, tt.flmin)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLambdaMax(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 1,
		1, -1,
		-1, 1,
		-1, -1,
	})
	lmax, err := LambdaMax(X, []float64{3, 1, -1, -3}, true, true)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, lmax, 1e-12)

	// A constant response is fully explained by the intercept.
	_, err = LambdaMax(X, []float64{5, 5, 5, 5}, true, true)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLambdaPathExplicitVerbatim(t *testing.T) {
	X, y := sparseModel(1, 20, 3, 1)
	explicit := []float64{0.1, 0.5, 0.2}

	est, err := New(Natural, WithLambdas(explicit))
	require.NoError(t, err)

	path, err := est.LambdaPath(X, y)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)

	// The returned path is a copy.
	path[0] = 9
	again, err := est.LambdaPath(X, y)
	require.NoError(t, err)
	assert.Equal(t, 0.1, again[0])
}

func TestLambdaPathGenerated(t *testing.T) {
	X, y := sparseModel(2, 30, 5, 1)
	est, err := New(Organic, WithNLambda(20), WithLambdaMinRatio(1e-3))
	require.NoError(t, err)

	path, err := est.LambdaPath(X, y)
	require.NoError(t, err)
	require.Len(t, path, 20)

	lmax, err := LambdaMax(X, y, true, true)
	require.NoError(t, err)
	assert.Equal(t, lmax, path[0])
	assert.InDelta(t, lmax*1e-3, path[19], 1e-15)
}

func TestNewInvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		method  Method
		options []Option
	}{
		{name: "unknown method", method: Method{}},
		{name: "zero nlam", method: Natural, options: []Option{WithNLambda(0)}},
		{name: "ratio above one", method: Natural, options: []Option{WithLambdaMinRatio(2)}},
		{name: "one fold", method: Natural, options: []Option{WithFolds(1)}},
		{name: "zero replicates", method: Organic, options: []Option{WithReplicates(0)}},
		{name: "quantile above one", method: Organic, options: []Option{WithQuantile(1.5)}},
		{name: "zero workers", method: Natural, options: []Option{WithWorkers(0)}},
		{name: "negative lambda", method: Natural, options: []Option{WithLambdas([]float64{0.2, -0.1})}},
		{name: "empty lambdas", method: Natural, options: []Option{WithLambdas([]float64{})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.method, tt.options...)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNewSinglePointIgnoresRatio(t *testing.T) {
	est, err := New(Natural, WithNLambda(1), WithLambdaMinRatio(0))
	require.NoError(t, err)
	assert.Equal(t, Natural.String(), est.Method().String())
}
