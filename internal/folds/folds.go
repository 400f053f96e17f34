package folds

import (
	"fmt"
	"math/rand"
)

// Fold pairs a training index set with its held-out test complement.
type Fold struct {
	Train []int
	Test  []int
}

// Split partitions the row range [0, n) into k disjoint, collectively
// exhaustive test sets, each paired with its complement as the training set.
// The split is driven by a permutation from the given seed, so identical
// inputs always produce identical folds. Remainder rows are spread over the
// leading folds.
func Split(n, k int, seed int64) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("fold count must be at least 2, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", n, k)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	perFold := n / k
	remainder := n % k

	result := make([]Fold, k)
	idx := 0
	for i := 0; i < k; i++ {
		testSize := perFold
		if i < remainder {
			testSize++
		}

		test := make([]int, testSize)
		copy(test, perm[idx:idx+testSize])

		train := make([]int, n-testSize)
		copy(train, perm[:idx])
		copy(train[idx:], perm[idx+testSize:])

		result[i] = Fold{Train: train, Test: test}
		idx += testSize
	}

	return result, nil
}
