// Package geometry computes the distance metrics used to describe the
// structural context of a residue. All functions are stateless; a metric that
// cannot be computed (empty input) is reported through a false second return
// value rather than as zero.
package geometry

import (
	"math"

	"github.com/carbocation/structmap/spatial"
	"github.com/carbocation/structmap/structure"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Distance is the Euclidean distance between two points.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Vec{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z})
}

// CenterOfMass returns the unweighted arithmetic mean of the atom
// coordinates. Element masses are ignored.
func CenterOfMass(atoms []structure.Atom) (r3.Vec, bool) {
	if len(atoms) == 0 {
		return r3.Vec{}, false
	}

	xs := make([]float64, len(atoms))
	ys := make([]float64, len(atoms))
	zs := make([]float64, len(atoms))
	for i, a := range atoms {
		xs[i], ys[i], zs[i] = a.Coord.X, a.Coord.Y, a.Coord.Z
	}

	return r3.Vec{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
		Z: stat.Mean(zs, nil),
	}, true
}

// MinAtomDistance returns the smallest pairwise distance between the two
// sets. It is undefined if either set is empty.
func MinAtomDistance(a, b []structure.Atom) (float64, bool) {
	if len(a) == 0 || len(b) == 0 {
		return 0, false
	}

	best := math.Inf(1)
	for _, x := range a {
		for _, y := range b {
			if d := Distance(x.Coord, y.Coord); d < best {
				best = d
			}
		}
	}

	return best, true
}

// MinDistanceToIndex is MinAtomDistance against a prebuilt index.
func MinDistanceToIndex(atoms []structure.Atom, idx spatial.Index) (float64, bool) {
	if len(atoms) == 0 || idx == nil || idx.Len() == 0 {
		return 0, false
	}

	best := math.Inf(1)
	for _, a := range atoms {
		if d, ok := idx.MinDistance(a.Coord); ok && d < best {
			best = d
		}
	}

	return best, true
}

// AnyAtomWithin reports whether any of atoms lies within radius of an indexed
// atom.
func AnyAtomWithin(atoms []structure.Atom, idx spatial.Index, radius float64) bool {
	if idx == nil {
		return false
	}

	for _, a := range atoms {
		if idx.AnyWithin(a.Coord, radius) {
			return true
		}
	}

	return false
}

// RadialDistance is the distance between the residue's own unweighted
// centroid and a precomputed reference centroid, such as the assembly
// centroid. It is undefined for a residue without atoms.
func RadialDistance(residueAtoms []structure.Atom, reference r3.Vec) (float64, bool) {
	com, ok := CenterOfMass(residueAtoms)
	if !ok {
		return 0, false
	}

	return Distance(com, reference), true
}
