package structure

import (
	"errors"
	"fmt"
)

// ErrMalformedStructure is returned when a structure holds nothing that can be
// annotated: no chains, or chains without a single atom.
var ErrMalformedStructure = errors.New("malformed structure")

// Model is a read-only view of the first model of one parsed structure. All
// derived atom sets are computed once by Builder.Build, so a Model may be
// shared between goroutines without synchronization.
type Model struct {
	ID     string
	Chains []*Chain

	chainIndex   map[string]*Chain
	residueIndex map[ResidueKey]*Residue

	ligand        []Atom
	heavy         []Atom
	standardHeavy []Atom
	chainHeavy    map[string][]Atom
}

// Empty reports whether the model holds no chains. Parsers return an empty
// model rather than failing when the input contains no coordinates.
func (m *Model) Empty() bool {
	return m == nil || len(m.Chains) == 0
}

// Validate returns ErrMalformedStructure if the model has no chains or no
// atoms at all.
func (m *Model) Validate() error {
	if m.Empty() {
		return fmt.Errorf("%w: no chains", ErrMalformedStructure)
	}

	for _, c := range m.Chains {
		for _, r := range c.Residues {
			if len(r.Atoms) > 0 {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %d chains but no atoms", ErrMalformedStructure, len(m.Chains))
}

// Chain looks up a chain by identifier.
func (m *Model) Chain(id string) (*Chain, bool) {
	c, ok := m.chainIndex[id]
	return c, ok
}

// Residue looks up a residue by chain, number and insertion code.
func (m *Model) Residue(key ResidueKey) (*Residue, bool) {
	r, ok := m.residueIndex[key]
	return r, ok
}

// ChainIDs returns chain identifiers in file order.
func (m *Model) ChainIDs() []string {
	out := make([]string, 0, len(m.Chains))
	for _, c := range m.Chains {
		out = append(out, c.ID)
	}
	return out
}

// LigandAtoms returns heavy atoms of heteroatom residues, water excluded.
func (m *Model) LigandAtoms() []Atom {
	return m.ligand
}

// LigandNames returns the distinct residue names of ligand groups in the order
// they first appear.
func (m *Model) LigandNames() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, c := range m.Chains {
		for _, r := range c.Residues {
			if r.Kind != Hetero {
				continue
			}
			if _, exists := seen[r.Name]; exists {
				continue
			}
			seen[r.Name] = struct{}{}
			out = append(out, r.Name)
		}
	}

	return out
}

// HeavyAtoms returns every non-hydrogen atom in the model, water included.
func (m *Model) HeavyAtoms() []Atom {
	return m.heavy
}

// StandardHeavyAtoms returns non-hydrogen atoms of standard (polymer) residues
// across all chains.
func (m *Model) StandardHeavyAtoms() []Atom {
	return m.standardHeavy
}

// ChainAtoms returns the heavy atoms of standard residues in one chain.
func (m *Model) ChainAtoms(id string) []Atom {
	return m.chainHeavy[id]
}

// OtherChainAtoms returns the heavy atoms of standard residues in every chain
// except id.
func (m *Model) OtherChainAtoms(id string) []Atom {
	out := make([]Atom, 0, len(m.standardHeavy))
	for _, c := range m.Chains {
		if c.ID == id {
			continue
		}
		out = append(out, m.chainHeavy[c.ID]...)
	}

	return out
}

// AtomCount returns the number of atoms, hydrogens included.
func (m *Model) AtomCount() int {
	n := 0
	for _, c := range m.Chains {
		for _, r := range c.Residues {
			n += len(r.Atoms)
		}
	}
	return n
}
