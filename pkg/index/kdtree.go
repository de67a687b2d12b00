package index

import (
	"sort"

	"github.com/google/uuid"
	"github.com/vecbase/vecbase"
)

// kdNode is a single node of the tree: either a leaf holding one point, or
// an internal node with a splitting axis and up to two children. Empty
// subtrees are nil, not zero-valued nodes.
type kdNode struct {
	vec   []float64
	id    uuid.UUID
	order int
	axis  int
	left  *kdNode
	right *kdNode
}

// KDTree recursively splits points on a median coordinate, cycling through
// axes by depth. Because cosine similarity is not axis-aligned-distance
// monotonic, queries traverse both subtrees at every node rather than
// pruning — this trades the usual kd-tree asymptotic win for a guarantee
// that results match Linear on tie-free inputs.
type KDTree struct {
	root *kdNode
	dim  int
	size int
}

// NewKDTree builds a KDTree from two parallel sequences of equal length.
func NewKDTree(vecs [][]float64, ids []uuid.UUID) (*KDTree, error) {
	dim, err := validateBuild(vecs, ids)
	if err != nil {
		return nil, err
	}

	type point struct {
		vec   []float64
		id    uuid.UUID
		order int
	}
	points := make([]point, len(vecs))
	for i := range vecs {
		v := make([]float64, len(vecs[i]))
		copy(v, vecs[i])
		points[i] = point{vec: v, id: ids[i], order: i}
	}

	var build func(pts []point, depth int) *kdNode
	build = func(pts []point, depth int) *kdNode {
		if len(pts) == 0 {
			return nil
		}
		axis := 0
		if dim > 0 {
			axis = depth % dim
		}
		sort.Slice(pts, func(i, j int) bool { return pts[i].vec[axis] < pts[j].vec[axis] })

		median := len(pts) / 2
		n := &kdNode{
			vec:   pts[median].vec,
			id:    pts[median].id,
			order: pts[median].order,
			axis:  axis,
		}
		n.left = build(pts[:median], depth+1)
		n.right = build(pts[median+1:], depth+1)
		return n
	}

	return &KDTree{root: build(points, 0), dim: dim, size: len(points)}, nil
}

// Dim returns the build dimension.
func (t *KDTree) Dim() int { return t.dim }

// KNN traverses the tree maintaining a bounded max-k heap of candidates by
// similarity, recursing into the near side of the split first and then the
// far side (unpruned, per the type's doc comment).
func (t *KDTree) KNN(q []float64, k int) ([]uuid.UUID, error) {
	if t.size == 0 {
		return []uuid.UUID{}, nil
	}
	if len(q) != t.dim {
		return nil, vecbase.ErrDimensionMismatch
	}
	if k <= 0 {
		return []uuid.UUID{}, nil
	}

	top := newTopK(k)

	var walk func(n *kdNode)
	walk = func(n *kdNode) {
		if n == nil {
			return
		}
		// Every node's vec was validated at build time against t.dim, and q
		// was just checked above, so a mismatch here would mean the tree's
		// own invariant broke.
		score := vecbase.MustCosine(q, n.vec)
		top.offer(candidate{id: n.id, score: score, order: n.order})

		near, far := n.left, n.right
		if q[n.axis] >= n.vec[n.axis] {
			near, far = n.right, n.left
		}
		walk(near)
		walk(far)
	}
	walk(t.root)
	return top.sorted(), nil
}
