package natural

import (
	"fmt"
	"math/rand"
)

// AssignFolds maps each of n observations to a fold in [0, k) using a random
// permutation drawn from rng. Fold sizes differ by at most one.
func AssignFolds(n, k int, rng *rand.Rand) ([]int, error) {
	if k < 2 || k > n {
		return nil, fmt.Errorf("%w: fold count %d outside [2, %d]", ErrInvalidInput, k, n)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidInput)
	}
	ids := make([]int, n)
	for pos, i := range rng.Perm(n) {
		ids[i] = pos % k
	}
	return ids, nil
}

// validateFoldIDs checks a caller-supplied assignment and returns the fold count
func validateFoldIDs(ids []int, n int) (int, error) {
	if len(ids) != n {
		return 0, fmt.Errorf("%w: %d fold ids for %d observations", ErrInvalidInput, len(ids), n)
	}
	k := 0
	for i, id := range ids {
		if id < 0 {
			return 0, fmt.Errorf("%w: fold id %d at %d is negative", ErrInvalidInput, id, i)
		}
		if id+1 > k {
			k = id + 1
		}
	}
	if k < 2 || k > n {
		return 0, fmt.Errorf("%w: fold count %d outside [2, %d]", ErrInvalidInput, k, n)
	}
	sizes := make([]int, k)
	for _, id := range ids {
		sizes[id]++
	}
	smallest, largest := n, 0
	for f, size := range sizes {
		if size == 0 {
			return 0, fmt.Errorf("%w: fold %d is empty", ErrInvalidInput, f)
		}
		smallest = min(smallest, size)
		largest = max(largest, size)
	}
	if largest-smallest > 1 {
		return 0, fmt.Errorf("%w: fold sizes range from %d to %d, must differ by at most one", ErrInvalidInput, smallest, largest)
	}
	return k, nil
}

// foldRows splits observation indices into held-in and held-out rows per fold
func foldRows(ids []int, k int) (train, test [][]int) {
	train = make([][]int, k)
	test = make([][]int, k)
	for i, id := range ids {
		for f := 0; f < k; f++ {
			if f == id {
				test[f] = append(test[f], i)
			} else {
				train[f] = append(train[f], i)
			}
		}
	}
	return train, test
}

// folds returns the assignment for n observations: the configured ids, or a
// seeded permutation.
func (e *Estimator) folds(n int) ([]int, int, error) {
	if e.foldIDs != nil {
		k, err := validateFoldIDs(e.foldIDs, n)
		if err != nil {
			return nil, 0, err
		}
		ids := make([]int, n)
		copy(ids, e.foldIDs)
		return ids, k, nil
	}
	ids, err := AssignFolds(n, e.nfold, rand.New(rand.NewSource(e.seed)))
	if err != nil {
		return nil, 0, err
	}
	return ids, e.nfold, nil
}
