// Package annotate turns variant reference positions into per-position
// structural annotations: whether the residue contacts a ligand or another
// chain, whether it sits in the transmembrane core, and the distances behind
// those calls.
package annotate

import (
	"fmt"
	"log"
	"sync"

	"github.com/BenLubar/memoize"
	"github.com/carbocation/structmap/geometry"
	"github.com/carbocation/structmap/mapping"
	"github.com/carbocation/structmap/regions"
	"github.com/carbocation/structmap/spatial"
	"github.com/carbocation/structmap/structure"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/guregu/null.v3"
)

// Deriver holds everything needed to annotate positions against one
// structure. All of its state is built in NewDeriver and only read
// afterwards, so Derive may be called from many goroutines.
type Deriver struct {
	opts      Options
	model     *structure.Model
	positions *mapping.PositionMap
	labels    regions.Labeler

	ligands    spatial.Index
	otherChain spatial.Index

	centroid   r3.Vec
	centroidOK bool

	// memoized per-residue heavy atom lookup; the memoize cache is
	// synchronized internally.
	residueAtoms func(structure.ResidueKey) []structure.Atom
}

// NewDeriver validates the structure and builds the ligand and other-chain
// indexes and the assembly centroid once. An empty structure, or one missing
// the chain under study, is a hard failure.
func NewDeriver(model *structure.Model, positions *mapping.PositionMap, labels regions.Labeler, opts Options) (*Deriver, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}

	if _, exists := model.Chain(opts.Chain); !exists {
		return nil, fmt.Errorf("%w: chain %q not found (chains: %v)", structure.ErrMalformedStructure, opts.Chain, model.ChainIDs())
	}

	if opts.Threshold <= 0 {
		return nil, fmt.Errorf("proximity threshold must be positive, got %v", opts.Threshold)
	}

	if opts.Index == nil {
		opts.Index = KDTreeIndex
	}

	if labels == nil {
		labels = regions.Table{}
	}

	centroidAtoms, err := opts.CentroidScope.atoms(model)
	if err != nil {
		return nil, err
	}

	d := &Deriver{
		opts:       opts,
		model:      model,
		positions:  positions,
		labels:     labels,
		ligands:    opts.Index(model.LigandAtoms()),
		otherChain: opts.Index(model.OtherChainAtoms(opts.Chain)),
	}
	d.centroid, d.centroidOK = geometry.CenterOfMass(centroidAtoms)

	d.residueAtoms = memoize.Memoize(func(key structure.ResidueKey) []structure.Atom {
		res, ok := model.Residue(key)
		if !ok || res.Kind != structure.Standard {
			return nil
		}
		return res.HeavyAtoms()
	}).(func(structure.ResidueKey) []structure.Atom)

	log.Printf("Structure %s: %d ligand atoms, %d atoms on chains other than %s, centroid over %d atoms (scope: %s)\n",
		model.ID, d.ligands.Len(), d.otherChain.Len(), opts.Chain, len(centroidAtoms), scopeName(opts.CentroidScope))

	return d, nil
}

func scopeName(c CentroidScope) CentroidScope {
	if c == "" {
		return CentroidStandard
	}
	return c
}

// Centroid returns the assembly centroid used for radial distances.
func (d *Deriver) Centroid() (r3.Vec, bool) {
	return d.centroid, d.centroidOK
}

// Derive annotates a single reference position. A position that does not map,
// maps to a residue absent from the chain under study, or maps to a residue
// with no heavy atoms is spatially unresolved: every other flag stays false
// and every metric stays null.
func (d *Deriver) Derive(position int) Record {
	rec := Record{
		Position: position,
		Region:   d.labels.Label(position),
	}

	atoms := d.resolve(position)
	if len(atoms) == 0 {
		rec.SpatiallyUnresolved = true
		return rec
	}

	rec.IsBindingSite = geometry.AnyAtomWithin(atoms, d.ligands, d.opts.Threshold)
	rec.IsInterface = geometry.AnyAtomWithin(atoms, d.otherChain, d.opts.Threshold)
	rec.IsTMCore = regions.Matches(rec.Region, d.opts.TransmembraneRegions)

	if v, ok := geometry.MinDistanceToIndex(atoms, d.ligands); ok {
		rec.MinDistanceToLigand = null.FloatFrom(v)
	}
	if v, ok := geometry.MinDistanceToIndex(atoms, d.otherChain); ok {
		rec.MinDistanceToOtherChain = null.FloatFrom(v)
	}

	if d.centroidOK && regions.Matches(rec.Region, d.opts.PoreRegions) {
		if v, ok := geometry.RadialDistance(atoms, d.centroid); ok {
			rec.RadialDistanceFromCentroid = null.FloatFrom(v)
		}
	}

	return rec
}

// resolve returns the heavy atoms of the standard residue a position maps to,
// or nil.
func (d *Deriver) resolve(position int) []structure.Atom {
	target, ok := d.positions.Lookup(position)
	if !ok {
		return nil
	}

	// Segments for other chains can reach the table if the caller did not
	// filter them; those residues are not on the chain under study.
	if target.Chain != "" && target.Chain != d.opts.Chain {
		return nil
	}

	return d.residueAtoms(structure.ResidueKey{Chain: d.opts.Chain, Number: target.Number})
}

// Annotate derives one record per valid position, in input order. Missing
// positions are skipped rather than treated as zero. With Workers > 1 the
// positions are processed concurrently; the output is identical either way.
func (d *Deriver) Annotate(positions []null.Int) []Record {
	valid := make([]int, 0, len(positions))
	for _, p := range positions {
		if p.Valid {
			valid = append(valid, int(p.Int64))
		}
	}

	out := make([]Record, len(valid))

	if d.opts.Workers <= 1 {
		for i, p := range valid {
			out[i] = d.Derive(p)
		}
		return out
	}

	concurrencyLimit := make(chan struct{}, d.opts.Workers)
	var pool sync.WaitGroup
	for i, p := range valid {
		pool.Add(1)
		concurrencyLimit <- struct{}{}
		go func(i, p int) {
			defer pool.Done()
			out[i] = d.Derive(p)
			<-concurrencyLimit
		}(i, p)
	}
	pool.Wait()

	return out
}

// AnnotatePositions is Annotate for positions that are all present.
func (d *Deriver) AnnotatePositions(positions []int) []Record {
	wrapped := make([]null.Int, 0, len(positions))
	for _, p := range positions {
		wrapped = append(wrapped, null.IntFrom(int64(p)))
	}
	return d.Annotate(wrapped)
}

// Coverage reports how many of the valid positions map through the position
// table.
func (d *Deriver) Coverage(positions []null.Int) mapping.Coverage {
	valid := make([]int, 0, len(positions))
	for _, p := range positions {
		if p.Valid {
			valid = append(valid, int(p.Int64))
		}
	}
	return d.positions.Coverage(valid)
}
