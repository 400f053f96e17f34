package folds

import (
	"reflect"
	"testing"
)

// TestSplit_DisjointAndExhaustive verifies every row lands in exactly one
// test fold and that train sets are the exact complements.
func TestSplit_DisjointAndExhaustive(t *testing.T) {
	const n, k = 103, 5

	result, err := Split(n, k, 2561)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(result) != k {
		t.Fatalf("expected %d folds, got %d", k, len(result))
	}

	seen := make(map[int]int)
	for i, fold := range result {
		if len(fold.Train)+len(fold.Test) != n {
			t.Errorf("fold %d: train+test = %d, expected %d", i, len(fold.Train)+len(fold.Test), n)
		}

		inTest := make(map[int]bool, len(fold.Test))
		for _, idx := range fold.Test {
			seen[idx]++
			inTest[idx] = true
		}
		for _, idx := range fold.Train {
			if inTest[idx] {
				t.Errorf("fold %d: row %d appears in both train and test", i, idx)
			}
		}
	}

	for row := 0; row < n; row++ {
		if seen[row] != 1 {
			t.Errorf("row %d appears in %d test folds, expected exactly 1", row, seen[row])
		}
	}
}

// TestSplit_RemainderSpread verifies leftover rows go to the leading folds
func TestSplit_RemainderSpread(t *testing.T) {
	result, err := Split(13, 5, 7)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	wantSizes := []int{3, 3, 3, 2, 2}
	for i, fold := range result {
		if len(fold.Test) != wantSizes[i] {
			t.Errorf("fold %d: test size %d, expected %d", i, len(fold.Test), wantSizes[i])
		}
	}
}

// TestSplit_Deterministic verifies identical seeds reproduce identical folds
func TestSplit_Deterministic(t *testing.T) {
	first, err := Split(250, 5, 2561)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	second, err := Split(250, 5, 2561)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different partitions")
	}

	different, err := Split(250, 5, 2562)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if reflect.DeepEqual(first, different) {
		t.Error("different seeds produced identical partitions")
	}
}

func TestSplit_InvalidInputs(t *testing.T) {
	if _, err := Split(100, 1, 0); err == nil {
		t.Error("expected error for fold count below 2")
	}
	if _, err := Split(3, 5, 0); err == nil {
		t.Error("expected error when rows < folds")
	}
}
