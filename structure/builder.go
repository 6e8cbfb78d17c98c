package structure

// Builder accumulates atoms in file order and produces an immutable Model.
// A Builder is not safe for concurrent use.
type Builder struct {
	id       string
	chains   []*Chain
	chainIdx map[string]*Chain
	resIdx   map[ResidueKey]*Residue
}

func NewBuilder(id string) *Builder {
	return &Builder{
		id:       id,
		chains:   make([]*Chain, 0),
		chainIdx: make(map[string]*Chain),
		resIdx:   make(map[ResidueKey]*Residue),
	}
}

// SetID replaces the structure identifier, e.g. once a HEADER record is seen.
func (b *Builder) SetID(id string) {
	b.id = id
}

// Add appends an atom to the residue identified by key, creating the chain and
// residue on first sight. The atom's Residue field is overwritten with key.
// The residue name and kind are taken from the first atom of the residue.
func (b *Builder) Add(key ResidueKey, resName string, kind ResidueKind, atom Atom) {
	chain, exists := b.chainIdx[key.Chain]
	if !exists {
		chain = &Chain{ID: key.Chain, Residues: make([]*Residue, 0, 32)}
		b.chainIdx[key.Chain] = chain
		b.chains = append(b.chains, chain)
	}

	res, exists := b.resIdx[key]
	if !exists {
		res = &Residue{Key: key, Name: resName, Kind: kind, Atoms: make([]Atom, 0, 8)}
		b.resIdx[key] = res
		chain.Residues = append(chain.Residues, res)
	}

	atom.Residue = key
	res.Atoms = append(res.Atoms, atom)
}

// Build finalizes the model and computes its derived atom sets. The Builder
// must not be used afterwards.
func (b *Builder) Build() *Model {
	m := &Model{
		ID:            b.id,
		Chains:        b.chains,
		chainIndex:    b.chainIdx,
		residueIndex:  b.resIdx,
		ligand:        make([]Atom, 0),
		heavy:         make([]Atom, 0),
		standardHeavy: make([]Atom, 0),
		chainHeavy:    make(map[string][]Atom, len(b.chains)),
	}

	for _, c := range m.Chains {
		perChain := make([]Atom, 0)
		for _, r := range c.Residues {
			hv := heavy(r.Atoms)
			m.heavy = append(m.heavy, hv...)

			switch r.Kind {
			case Standard:
				m.standardHeavy = append(m.standardHeavy, hv...)
				perChain = append(perChain, hv...)
			case Hetero:
				m.ligand = append(m.ligand, hv...)
			}
		}
		m.chainHeavy[c.ID] = perChain
	}

	*b = Builder{}

	return m
}
