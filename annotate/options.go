package annotate

import (
	"fmt"

	"github.com/carbocation/structmap/spatial"
	"github.com/carbocation/structmap/structure"
)

// CentroidScope selects which atoms define the assembly centroid used for
// radial distances. The two choices give different numbers, so the scope in
// use is logged whenever a Deriver is built.
type CentroidScope string

const (
	// CentroidStandard uses every heavy atom of standard residues across the
	// whole model. This is the default.
	CentroidStandard CentroidScope = "standard"

	// CentroidAllHeavy also includes ligands, ions and water.
	CentroidAllHeavy CentroidScope = "all"
)

func (c CentroidScope) atoms(m *structure.Model) ([]structure.Atom, error) {
	switch c {
	case CentroidStandard, "":
		return m.StandardHeavyAtoms(), nil
	case CentroidAllHeavy:
		return m.HeavyAtoms(), nil
	}

	return nil, fmt.Errorf("unknown centroid scope %q (valid: %s, %s)", string(c), CentroidStandard, CentroidAllHeavy)
}

// IndexBuilder constructs a spatial index over a fixed atom set.
type IndexBuilder func(atoms []structure.Atom) spatial.Index

// KDTreeIndex and LinearIndex are the two IndexBuilders provided by package
// spatial.
var (
	KDTreeIndex IndexBuilder = func(atoms []structure.Atom) spatial.Index { return spatial.NewKDTree(atoms) }
	LinearIndex IndexBuilder = func(atoms []structure.Atom) spatial.Index { return spatial.NewLinear(atoms) }
)

type Options struct {
	// Chain under study. Interface contacts are measured against every other
	// chain.
	Chain string

	// Threshold is the inclusive proximity cutoff, in Angstroms, for the
	// binding-site and interface flags.
	Threshold float64

	// Region labels counted as transmembrane, and the subset for which the
	// radial distance is reported. Compared case-insensitively.
	TransmembraneRegions []string
	PoreRegions          []string

	CentroidScope CentroidScope

	// Workers > 1 annotates positions concurrently.
	Workers int

	// Index defaults to KDTreeIndex.
	Index IndexBuilder
}

// DefaultOptions mirrors the parameters used for the alpha-7 nicotinic
// receptor pentamer: chain A, 5 Angstrom contacts, M1-M4 helices with M2
// lining the pore.
func DefaultOptions() Options {
	return Options{
		Chain:                "A",
		Threshold:            5.0,
		TransmembraneRegions: []string{"M1", "M2", "M3", "M4"},
		PoreRegions:          []string{"M2"},
		CentroidScope:        CentroidStandard,
		Workers:              1,
		Index:                KDTreeIndex,
	}
}
