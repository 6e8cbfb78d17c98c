// Package spatial answers proximity queries against a fixed set of atoms. An
// index is built once per atom set and queried many times; it is never
// modified after construction, so queries may run concurrently.
package spatial

import (
	"math"

	"github.com/carbocation/structmap/structure"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Index is a read-only proximity structure over atom coordinates. Distances
// are plain Euclidean distances in the structure's native units (Angstroms).
type Index interface {
	// AnyWithin reports whether at least one indexed atom lies within radius
	// of p. It is false for an empty index.
	AnyWithin(p r3.Vec, radius float64) bool

	// MinDistance returns the distance from p to the nearest indexed atom.
	// The second return value is false when the index is empty.
	MinDistance(p r3.Vec) (float64, bool)

	// Len returns the number of indexed atoms.
	Len() int
}

// KDTree indexes atoms in a k-d tree.
type KDTree struct {
	tree *kdtree.Tree
	n    int
}

// NewKDTree builds a k-d tree over the coordinates of atoms. The atoms slice
// is not retained.
func NewKDTree(atoms []structure.Atom) *KDTree {
	pts := make(kdtree.Points, 0, len(atoms))
	for _, a := range atoms {
		pts = append(pts, kdtree.Point{a.Coord.X, a.Coord.Y, a.Coord.Z})
	}

	idx := &KDTree{n: len(pts)}
	if len(pts) > 0 {
		idx.tree = kdtree.New(pts, false)
	}

	return idx
}

func (idx *KDTree) Len() int {
	return idx.n
}

func (idx *KDTree) MinDistance(p r3.Vec) (float64, bool) {
	if idx.n == 0 {
		return 0, false
	}

	// kdtree.Point distances are squared.
	_, d2 := idx.tree.Nearest(kdtree.Point{p.X, p.Y, p.Z})
	return math.Sqrt(d2), true
}

func (idx *KDTree) AnyWithin(p r3.Vec, radius float64) bool {
	return anyWithin(idx, p, radius)
}

// Linear is the brute-force baseline: every query scans all atoms.
type Linear struct {
	coords []r3.Vec
}

func NewLinear(atoms []structure.Atom) *Linear {
	idx := &Linear{coords: make([]r3.Vec, 0, len(atoms))}
	for _, a := range atoms {
		idx.coords = append(idx.coords, a.Coord)
	}

	return idx
}

func (idx *Linear) Len() int {
	return len(idx.coords)
}

func (idx *Linear) MinDistance(p r3.Vec) (float64, bool) {
	if len(idx.coords) == 0 {
		return 0, false
	}

	best := math.Inf(1)
	for _, c := range idx.coords {
		if d2 := r3.Norm2(r3.Vec{X: c.X - p.X, Y: c.Y - p.Y, Z: c.Z - p.Z}); d2 < best {
			best = d2
		}
	}

	return math.Sqrt(best), true
}

func (idx *Linear) AnyWithin(p r3.Vec, radius float64) bool {
	return anyWithin(idx, p, radius)
}

// anyWithin holds AnyWithin(p, r) == (MinDistance(p) <= r) for every index.
func anyWithin(idx Index, p r3.Vec, radius float64) bool {
	d, ok := idx.MinDistance(p)
	return ok && d <= radius
}
