package structure

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ResidueKind classifies a residue the way the coordinate file does: polymer
// residues from ATOM records, heteroatom groups from HETATM records, and
// water.
type ResidueKind byte

const (
	Standard ResidueKind = iota
	Hetero
	Water
)

func (k ResidueKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case Hetero:
		return "hetero"
	case Water:
		return "water"
	}

	return "unknown"
}

// ResidueKey uniquely identifies a residue within a model. ICode is 0 when the
// residue has no insertion code.
type ResidueKey struct {
	Chain  string
	Number int
	ICode  byte
}

func (k ResidueKey) String() string {
	if k.ICode == 0 {
		return fmt.Sprintf("%s:%d", k.Chain, k.Number)
	}

	return fmt.Sprintf("%s:%d%c", k.Chain, k.Number, k.ICode)
}

// Atom is a single coordinate record. Coordinates are in Angstroms.
type Atom struct {
	Serial  int
	Name    string
	Element string
	Coord   r3.Vec
	Residue ResidueKey
}

// Chain returns the identifier of the chain that owns this atom.
func (a Atom) Chain() string {
	return a.Residue.Chain
}

// IsHydrogen reports whether the atom is a hydrogen (or deuterium).
func (a Atom) IsHydrogen() bool {
	return a.Element == "H" || a.Element == "D"
}

func (a Atom) String() string {
	return fmt.Sprintf("(%d, %s, %s, %s, [%0.3f %0.3f %0.3f])",
		a.Serial, a.Name, a.Element, a.Residue,
		a.Coord.X, a.Coord.Y, a.Coord.Z)
}

type Residue struct {
	Key   ResidueKey
	Name  string
	Kind  ResidueKind
	Atoms []Atom
}

// HeavyAtoms returns the residue's atoms, excluding hydrogens. The returned
// slice is freshly allocated.
func (r *Residue) HeavyAtoms() []Atom {
	return heavy(r.Atoms)
}

// Chain is an ordered sequence of residues. Residue numbers need not be
// contiguous; unresolved stretches simply have no residue.
type Chain struct {
	ID       string
	Residues []*Residue
}

func heavy(atoms []Atom) []Atom {
	out := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		if a.IsHydrogen() {
			continue
		}
		out = append(out, a)
	}

	return out
}
