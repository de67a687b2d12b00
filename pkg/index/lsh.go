package index

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/vecbase/vecbase"
)

// DefaultLSHPlanes is the default number of random hyperplanes sampled per
// build, per the build contract in the index specification.
const DefaultLSHPlanes = 12

// LSH is an approximate kNN index built from random hyperplane projections:
// each stored vector gets a P-bit signature (1 bit per plane, 1 iff the dot
// product with that plane is non-negative), and vectors are bucketed by
// signature. A query is answered by a Linear scan restricted to its own
// bucket — one hash table, for a reproducible single-table contract.
type LSH struct {
	planes  [][]float64
	buckets map[string]*Linear
	dim     int
	size    int
}

// NewLSH builds an LSH index from two parallel sequences of equal length,
// sampling planes random hyperplane normals from a standard normal in
// dimension D. When seed is non-nil, the same seed and input produce the
// same bucketing.
func NewLSH(vecs [][]float64, ids []uuid.UUID, planes int, seed *int64) (*LSH, error) {
	dim, err := validateBuild(vecs, ids)
	if err != nil {
		return nil, err
	}
	if planes <= 0 {
		planes = DefaultLSHPlanes
	}

	var rng *rand.Rand
	if seed != nil {
		rng = rand.New(rand.NewSource(*seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	hyperplanes := make([][]float64, planes)
	for i := range hyperplanes {
		plane := make([]float64, dim)
		for j := range plane {
			plane[j] = rng.NormFloat64()
		}
		hyperplanes[i] = plane
	}

	idx := &LSH{planes: hyperplanes, buckets: make(map[string]*Linear), dim: dim, size: len(vecs)}

	byBucket := make(map[string][][]float64)
	idsByBucket := make(map[string][]uuid.UUID)
	for i, v := range vecs {
		key := idx.signature(v)
		byBucket[key] = append(byBucket[key], v)
		idsByBucket[key] = append(idsByBucket[key], ids[i])
	}
	for key, bucketVecs := range byBucket {
		lin, err := NewLinear(bucketVecs, idsByBucket[key])
		if err != nil {
			return nil, err
		}
		idx.buckets[key] = lin
	}

	return idx, nil
}

// Dim returns the build dimension.
func (l *LSH) Dim() int { return l.dim }

// KNN hashes q with the same planes used at build time, retrieves the
// single matching bucket, and runs a Linear scan restricted to it. An empty
// or absent bucket yields an empty result — this is the approximation: a
// true neighbor can be missed if it hashed into a different bucket.
func (l *LSH) KNN(q []float64, k int) ([]uuid.UUID, error) {
	if l.size == 0 {
		return []uuid.UUID{}, nil
	}
	if len(q) != l.dim {
		return nil, vecbase.ErrDimensionMismatch
	}
	if k <= 0 {
		return []uuid.UUID{}, nil
	}

	bucket, ok := l.buckets[l.signature(q)]
	if !ok {
		return []uuid.UUID{}, nil
	}
	return bucket.KNN(q, k)
}

// signature computes the P-bit bucket key for vec under this index's
// planes: bit i is 1 iff dot(vec, plane_i) is non-negative.
func (l *LSH) signature(vec []float64) string {
	var sb strings.Builder
	sb.Grow(len(l.planes))
	for _, plane := range l.planes {
		var dot float64
		for j, p := range plane {
			dot += vec[j] * p
		}
		if dot >= 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
