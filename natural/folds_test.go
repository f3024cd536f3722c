package natural

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignFoldsPartition(t *testing.T) {
	for _, n := range []int{2, 3, 7, 10, 31, 50} {
		for k := 2; k <= n; k++ {
			t.Run(fmt.Sprintf("n=%d/k=%d", n, k), func(t *testing.T) {
				ids, err := AssignFolds(n, k, rand.New(rand.NewSource(int64(n*100+k))))
				require.NoError(t, err)
				require.Len(t, ids, n)

				sizes := make([]int, k)
				for _, id := range ids {
					require.GreaterOrEqual(t, id, 0)
					require.Less(t, id, k)
					sizes[id]++
				}
				minSize, maxSize := n, 0
				for _, s := range sizes {
					minSize = min(minSize, s)
					maxSize = max(maxSize, s)
				}
				assert.Greater(t, minSize, 0)
				assert.LessOrEqual(t, maxSize-minSize, 1)
			})
		}
	}
}

func TestAssignFoldsReproducible(t *testing.T) {
	a, err := AssignFolds(40, 5, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := AssignFolds(40, 5, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := AssignFolds(40, 5, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestAssignFoldsInvalid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := AssignFolds(5, 6, rng)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = AssignFolds(5, 1, rng)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = AssignFolds(5, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateFoldIDs(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int
		n       int
		wantK   int
		wantErr bool
	}{
		{name: "valid", ids: []int{0, 1, 2, 0, 1, 2}, n: 6, wantK: 3},
		{name: "sizes differ by one", ids: []int{1, 0, 1, 0, 1}, n: 5, wantK: 2},
		{name: "unbalanced", ids: []int{0, 0, 0, 1}, n: 4, wantErr: true},
		{name: "length mismatch", ids: []int{0, 1}, n: 3, wantErr: true},
		{name: "negative id", ids: []int{0, -1, 1}, n: 3, wantErr: true},
		{name: "empty fold", ids: []int{0, 2, 0, 2}, n: 4, wantErr: true},
		{name: "single fold", ids: []int{0, 0, 0}, n: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := validateFoldIDs(tt.ids, tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantK, k)
		})
	}
}

func TestFoldRows(t *testing.T) {
	ids := []int{1, 0, 1, 2, 0}
	train, test := foldRows(ids, 3)

	assert.Equal(t, [][]int{{1, 4}, {0, 2}, {3}}, test)
	assert.Equal(t, [][]int{{0, 2, 3}, {1, 3, 4}, {0, 1, 2, 4}}, train)
}
