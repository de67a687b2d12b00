package index

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/vecbase/vecbase"
)

func randVecs(n, dim int, seed int64) ([][]float64, []uuid.UUID) {
	rng := rand.New(rand.NewSource(seed))
	vecs := make([][]float64, n)
	ids := make([]uuid.UUID, n)
	for i := range vecs {
		v := make([]float64, dim)
		for j := range v {
			v[j] = rng.Float64()*2 - 1
		}
		vecs[i] = v
		ids[i] = uuid.New()
	}
	return vecs, ids
}

func TestLinearKNNSortedAndBounded(t *testing.T) {
	vecs, ids := randVecs(30, 8, 1)
	lin, err := NewLinear(vecs, ids)
	if err != nil {
		t.Fatalf("NewLinear() error = %v", err)
	}

	q := vecs[3]
	got, err := lin.KNN(q, 5)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len(got) = %d, want 5", len(got))
	}
	// The query vector itself is closest to itself, so must rank first.
	if got[0] != ids[3] {
		t.Errorf("top result = %v, want the query's own id %v", got[0], ids[3])
	}

	var lastScore float64 = 2 // above any valid cosine value
	for _, id := range got {
		var v []float64
		for i, cid := range ids {
			if cid == id {
				v = vecs[i]
			}
		}
		score, _ := vecbase.Cosine(q, v)
		if score > lastScore {
			t.Fatalf("results not sorted by descending similarity")
		}
		lastScore = score
	}
}

func TestLinearKNNFewerThanK(t *testing.T) {
	vecs, ids := randVecs(3, 4, 2)
	lin, _ := NewLinear(vecs, ids)

	got, err := lin.KNN(vecs[0], 100)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
}

func TestLinearKNNEmptyIndex(t *testing.T) {
	lin, err := NewLinear(nil, nil)
	if err != nil {
		t.Fatalf("NewLinear() error = %v", err)
	}
	got, err := lin.KNN([]float64{1, 2}, 5)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestLinearDimensionMismatch(t *testing.T) {
	vecs, ids := randVecs(5, 4, 3)
	lin, _ := NewLinear(vecs, ids)

	_, err := lin.KNN([]float64{1, 2}, 1)
	if !vecbase.Is(err, vecbase.KindDimensionMismatch) && err != vecbase.ErrDimensionMismatch {
		t.Fatalf("expected dimension mismatch error, got %v", err)
	}
}

func TestBuildCopiesInputs(t *testing.T) {
	vecs, ids := randVecs(4, 3, 4)
	lin, err := NewLinear(vecs, ids)
	if err != nil {
		t.Fatalf("NewLinear() error = %v", err)
	}

	// Mutate the source slices after build; the index must be unaffected.
	orig := append([]float64(nil), vecs[0]...)
	origID := ids[0]
	vecs[0][0] = 999
	ids[0] = uuid.New()

	got, err := lin.KNN(orig, 1)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0] != origID {
		t.Fatalf("top result = %v, want the original id %v", got[0], origID)
	}
}

// TestKDTreeAgreesWithLinear checks that KDTree returns the same result set
// as Linear on tie-free random inputs. LSH parity is exercised at the
// service level in pkg/core's TestScenarioAlgoParity.
func TestKDTreeAgreesWithLinear(t *testing.T) {
	vecs, ids := randVecs(50, 6, 7)
	lin, err := NewLinear(vecs, ids)
	if err != nil {
		t.Fatalf("NewLinear() error = %v", err)
	}
	kd, err := NewKDTree(vecs, ids)
	if err != nil {
		t.Fatalf("NewKDTree() error = %v", err)
	}

	for q := 0; q < 10; q++ {
		query := vecs[q*4]
		wantIDs, err := lin.KNN(query, 5)
		if err != nil {
			t.Fatalf("Linear.KNN() error = %v", err)
		}
		gotIDs, err := kd.KNN(query, 5)
		if err != nil {
			t.Fatalf("KDTree.KNN() error = %v", err)
		}
		if !sameSet(wantIDs, gotIDs) {
			t.Fatalf("kd-tree result set %v != linear result set %v for query %d", gotIDs, wantIDs, q)
		}
	}
}

func TestKDTreeEmptyIndex(t *testing.T) {
	kd, err := NewKDTree(nil, nil)
	if err != nil {
		t.Fatalf("NewKDTree() error = %v", err)
	}
	got, err := kd.KNN([]float64{1}, 3)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestLSHDeterministicWithSeed(t *testing.T) {
	vecs, ids := randVecs(40, 10, 9)
	seed := int64(42)

	a, err := NewLSH(vecs, ids, 12, &seed)
	if err != nil {
		t.Fatalf("NewLSH() error = %v", err)
	}
	b, err := NewLSH(vecs, ids, 12, &seed)
	if err != nil {
		t.Fatalf("NewLSH() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		q := vecs[i*6]
		ga, err := a.KNN(q, 3)
		if err != nil {
			t.Fatalf("KNN() error = %v", err)
		}
		gb, err := b.KNN(q, 3)
		if err != nil {
			t.Fatalf("KNN() error = %v", err)
		}
		if fmt.Sprint(ga) != fmt.Sprint(gb) {
			t.Fatalf("same seed produced different buckets: %v != %v", ga, gb)
		}
	}
}

func TestLSHEmptyBucketYieldsEmptyResult(t *testing.T) {
	seed := int64(1)
	vecs := [][]float64{{1, 0, 0, 0}}
	ids := []uuid.UUID{uuid.New()}
	lsh, err := NewLSH(vecs, ids, 12, &seed)
	if err != nil {
		t.Fatalf("NewLSH() error = %v", err)
	}

	// With seed 1, a query in the opposite direction on every axis hashes
	// to a different signature than the single stored point, so its bucket
	// is unpopulated.
	q := []float64{-1, -1, -1, -1}
	if lsh.signature(q) == lsh.signature(vecs[0]) {
		t.Fatalf("query shares the stored point's bucket for this seed")
	}
	got, err := lsh.KNN(q, 3)
	if err != nil {
		t.Fatalf("KNN() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0 for a query in an empty bucket", len(got))
	}
}

func sameSet(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[uuid.UUID]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}
