package index

import (
	"github.com/google/uuid"
	"github.com/vecbase/vecbase"
)

// Linear is a brute-force kNN index: every query scores against every
// stored vector. It is the reference implementation other variants must
// agree with on tie-free inputs, and the structure an LSH bucket falls
// back on internally.
type Linear struct {
	vecs [][]float64
	ids  []uuid.UUID
	dim  int
}

// NewLinear builds a Linear index from two parallel sequences of equal
// length. The index copies both; later mutation of vecs or ids does not
// affect it.
func NewLinear(vecs [][]float64, ids []uuid.UUID) (*Linear, error) {
	dim, err := validateBuild(vecs, ids)
	if err != nil {
		return nil, err
	}
	return &Linear{
		vecs: copyVecs(vecs),
		ids:  copyIDs(ids),
		dim:  dim,
	}, nil
}

// Dim returns the build dimension.
func (l *Linear) Dim() int { return l.dim }

// KNN scores q against every stored vector and returns the top k by
// descending cosine similarity, O(N*D) per query.
func (l *Linear) KNN(q []float64, k int) ([]uuid.UUID, error) {
	if len(l.vecs) == 0 {
		return []uuid.UUID{}, nil
	}
	if len(q) != l.dim {
		return nil, vecbase.ErrDimensionMismatch
	}
	if k <= 0 {
		return []uuid.UUID{}, nil
	}

	top := newTopK(k)
	for i, v := range l.vecs {
		// Dimensions were already checked above against l.dim, and every
		// stored vector was validated at build time, so a mismatch here
		// would mean the index's own invariant broke.
		score := vecbase.MustCosine(q, v)
		top.offer(candidate{id: l.ids[i], score: score, order: i})
	}
	return top.sorted(), nil
}
