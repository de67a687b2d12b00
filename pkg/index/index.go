// Package index implements the interchangeable kNN index structures backing
// a library's similarity search: a brute-force linear scan, a kd-tree, and
// a random-projection LSH table. All three satisfy the same Index
// interface, so a caller can build and query whichever variant it chooses
// without branching beyond the constructor call.
package index

import (
	"container/heap"
	"fmt"

	"github.com/google/uuid"
	"github.com/vecbase/vecbase"
)

// Index is the capability every kNN structure exposes: given a query
// vector and k, return up to k identifiers ranked by descending cosine
// similarity. Queries over an empty index return an empty, non-nil slice.
type Index interface {
	// KNN returns up to k identifiers ordered by descending similarity to
	// q. If fewer than k candidates exist, all candidates are returned.
	KNN(q []float64, k int) ([]uuid.UUID, error)
	// Dim returns the vector dimension this index was built with.
	Dim() int
}

// candidate pairs a stored identifier with its similarity score against the
// current query, plus the insertion order it was built with so ties break
// deterministically.
type candidate struct {
	id    uuid.UUID
	score float64
	order int
}

// scoreHeap is a min-heap over candidates ordered by (score, -order), so the
// *worst* of the current best-k sits at the top and can be evicted in O(log
// k) when a better candidate arrives. Lower insertion order wins ties,
// matching the deterministic tie-break the index contract requires.
type scoreHeap []candidate

func (h scoreHeap) Len() int { return len(h) }

func (h scoreHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	// Among ties, the heap's "worst" element is the one with the larger
	// insertion order, so it is the one evicted first.
	return h[i].order > h[j].order
}

func (h scoreHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *scoreHeap) Push(x any) {
	*h = append(*h, x.(candidate))
}

func (h *scoreHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// topK maintains a bounded max-k scoreHeap and returns its contents sorted
// by descending similarity (ties broken by ascending insertion order).
type topK struct {
	h scoreHeap
	k int
}

func newTopK(k int) *topK {
	h := make(scoreHeap, 0, k)
	heap.Init(&h)
	return &topK{h: h, k: k}
}

// offer admits the candidate unconditionally while the heap has room, or
// swaps it in when it beats the current worst-of-best-k.
func (t *topK) offer(c candidate) {
	if t.k <= 0 {
		return
	}
	if t.h.Len() < t.k {
		heap.Push(&t.h, c)
		return
	}
	if c.score > t.h[0].score || (c.score == t.h[0].score && c.order < t.h[0].order) {
		heap.Pop(&t.h)
		heap.Push(&t.h, c)
	}
}

// sorted drains the heap into a slice ordered by descending similarity.
func (t *topK) sorted() []uuid.UUID {
	items := make([]candidate, len(t.h))
	copy(items, t.h)

	// Simple insertion sort by descending (score, ascending order): result
	// sets are small (bounded by k), so this avoids pulling in sort.Slice
	// just to invert the heap's own Less.
	for i := 1; i < len(items); i++ {
		cur := items[i]
		j := i - 1
		for j >= 0 && less(cur, items[j]) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = cur
	}

	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids
}

// less reports whether a ranks ahead of b: higher score first, lower
// insertion order breaks ties.
func less(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.order < b.order
}

// validateBuild checks the two parallel build sequences agree in length and
// that every vector shares the same dimension.
func validateBuild(vecs [][]float64, ids []uuid.UUID) (dim int, err error) {
	if len(vecs) != len(ids) {
		return 0, fmt.Errorf("vecbase/index: %d vectors but %d ids", len(vecs), len(ids))
	}
	if len(vecs) == 0 {
		return 0, nil
	}
	dim = len(vecs[0])
	for i, v := range vecs {
		if len(v) != dim {
			return 0, wrapDimErr(dim, len(v), i)
		}
	}
	return dim, nil
}

func wrapDimErr(want, got, at int) error {
	return fmt.Errorf("%w: vector %d has length %d, expected %d", vecbase.ErrDimensionMismatch, at, got, want)
}

// copyVecs returns a deep copy of vecs so the index is unaffected by later
// mutation of the caller's slices, as the build contract requires.
func copyVecs(vecs [][]float64) [][]float64 {
	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		cp := make([]float64, len(v))
		copy(cp, v)
		out[i] = cp
	}
	return out
}

func copyIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}
