package annotate

import (
	"bytes"
	"math"
	"testing"

	"github.com/carbocation/structmap/geometry"
	"github.com/carbocation/structmap/mapping"
	"github.com/carbocation/structmap/regions"
	"github.com/carbocation/structmap/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/guregu/null.v3"
)

type fixtureAtom struct {
	chain   string
	number  int
	resName string
	kind    structure.ResidueKind
	name    string
	element string
	at      r3.Vec
}

// Chain A carries the residues under study, a nicotine-like ligand at the
// origin and a water. Chain B sits 3 A from residue A20.
var fixture = []fixtureAtom{
	{"A", 10, "ALA", structure.Standard, "CA", "C", r3.Vec{X: 4}},
	{"A", 11, "GLY", structure.Standard, "CA", "C", r3.Vec{X: 6}},
	{"A", 12, "GLY", structure.Standard, "H", "H", r3.Vec{X: 1}},
	{"A", 20, "LEU", structure.Standard, "CA", "C", r3.Vec{Y: 10}},
	{"A", 900, "NCT", structure.Hetero, "N1", "N", r3.Vec{}},
	{"A", 901, "HOH", structure.Water, "O", "O", r3.Vec{X: 5.5}},
	{"B", 1, "ALA", structure.Standard, "CA", "C", r3.Vec{Z: 20}},
	{"B", 2, "ALA", structure.Standard, "CA", "C", r3.Vec{Y: 10, Z: 3}},
}

func fixtureModel() *structure.Model {
	b := structure.NewBuilder("TEST")
	for i, a := range fixture {
		b.Add(structure.ResidueKey{Chain: a.chain, Number: a.number}, a.resName, a.kind, structure.Atom{
			Serial:  i + 1,
			Name:    a.name,
			Element: a.element,
			Coord:   a.at,
		})
	}
	return b.Build()
}

func fixtureDeriver(t *testing.T, opts Options) *Deriver {
	t.Helper()

	pm, mismatches := mapping.Build([]mapping.Segment{
		{ReferenceStart: 1, ReferenceEnd: 30, StructureStart: 1, StructureEnd: 30, Chain: "A"},
	})
	require.Empty(t, mismatches)

	d, err := NewDeriver(fixtureModel(), pm, regions.Table{{Name: "M2", Start: 15, End: 25}}, opts)
	require.NoError(t, err)
	return d
}

func TestBindingSiteThreshold(t *testing.T) {
	d := fixtureDeriver(t, DefaultOptions())

	near := d.Derive(10)
	assert.False(t, near.SpatiallyUnresolved)
	assert.True(t, near.IsBindingSite)
	assert.InDelta(t, 4.0, near.MinDistanceToLigand.Float64, 1e-9)

	// The water at 0.5 A from residue 11 is not a ligand.
	far := d.Derive(11)
	assert.False(t, far.SpatiallyUnresolved)
	assert.False(t, far.IsBindingSite)
	assert.InDelta(t, 6.0, far.MinDistanceToLigand.Float64, 1e-9)

	opts := DefaultOptions()
	opts.Threshold = 4
	assert.True(t, fixtureDeriver(t, opts).Derive(10).IsBindingSite, "threshold is inclusive")
}

func TestUnmappedPositionIsUnresolved(t *testing.T) {
	d := fixtureDeriver(t, DefaultOptions())

	rec := d.Derive(50)
	assert.Equal(t, Record{Position: 50, Region: regions.Unassigned, SpatiallyUnresolved: true}, rec)
}

func TestUnmappedPoreIsUnresolved(t *testing.T) {
	pm, mismatches := mapping.Build([]mapping.Segment{
		{ReferenceStart: 1, ReferenceEnd: 30, StructureStart: 1, StructureEnd: 30, Chain: "A"},
	})
	require.Empty(t, mismatches)

	labels := regions.Table{{Name: "M2", Start: 15, End: 25}, {Name: "M3", Start: 40, End: 60}}
	d, err := NewDeriver(fixtureModel(), pm, labels, DefaultOptions())
	require.NoError(t, err)

	// 50 has no mapping; 15 maps to a residue absent from the model.
	for _, v := range []struct {
		pos    int
		region string
	}{
		{50, "M3"},
		{15, "M2"},
	} {
		rec := d.Derive(v.pos)
		assert.Equal(t, Record{Position: v.pos, Region: v.region, SpatiallyUnresolved: true}, rec, "position %d", v.pos)
		assert.False(t, rec.IsTMCore)
		assert.False(t, rec.RadialDistanceFromCentroid.Valid)
	}
}

func TestResidueWithoutHeavyAtomsIsUnresolved(t *testing.T) {
	d := fixtureDeriver(t, DefaultOptions())

	for _, pos := range []int{12, 13} {
		rec := d.Derive(pos)
		assert.True(t, rec.SpatiallyUnresolved, "position %d", pos)
		assert.False(t, rec.IsBindingSite)
		assert.False(t, rec.MinDistanceToLigand.Valid)
		assert.False(t, rec.MinDistanceToOtherChain.Valid)
	}
}

func TestPoreRadialDistance(t *testing.T) {
	d := fixtureDeriver(t, DefaultOptions())

	pore := d.Derive(20)
	assert.Equal(t, "M2", pore.Region)
	assert.True(t, pore.IsTMCore)
	assert.True(t, pore.IsInterface)
	assert.InDelta(t, 3.0, pore.MinDistanceToOtherChain.Float64, 1e-9)
	require.True(t, pore.RadialDistanceFromCentroid.Valid)

	// Standard-residue heavy atoms only: A10, A11, A20, B1, B2.
	centroid := r3.Vec{X: 10.0 / 5, Y: 20.0 / 5, Z: 23.0 / 5}
	got, ok := d.Centroid()
	require.True(t, ok)
	assert.InDelta(t, 0, geometry.Distance(got, centroid), 1e-9)
	assert.InDelta(t, geometry.Distance(r3.Vec{Y: 10}, centroid), pore.RadialDistanceFromCentroid.Float64, 1e-9)

	// Outside the pore, the radial distance is undefined.
	other := d.Derive(10)
	assert.False(t, other.IsTMCore)
	assert.False(t, other.RadialDistanceFromCentroid.Valid)
	assert.True(t, other.MinDistanceToOtherChain.Valid)
	assert.InDelta(t, math.Sqrt(16+100+9), other.MinDistanceToOtherChain.Float64, 1e-9)
}

func TestCentroidScopeAll(t *testing.T) {
	opts := DefaultOptions()
	opts.CentroidScope = CentroidAllHeavy
	d := fixtureDeriver(t, opts)

	// Adds the ligand and the water; the hydrogen is still excluded.
	got, ok := d.Centroid()
	require.True(t, ok)
	assert.InDelta(t, 0, geometry.Distance(got, r3.Vec{X: 15.5 / 7, Y: 20.0 / 7, Z: 23.0 / 7}), 1e-9)

	opts.CentroidScope = "mass"
	pm, _ := mapping.Build(nil)
	_, err := NewDeriver(fixtureModel(), pm, nil, opts)
	assert.Error(t, err)
}

func TestNewDeriverErrors(t *testing.T) {
	pm, _ := mapping.Build(nil)

	_, err := NewDeriver(structure.NewBuilder("EMPTY").Build(), pm, nil, DefaultOptions())
	assert.ErrorIs(t, err, structure.ErrMalformedStructure)

	opts := DefaultOptions()
	opts.Chain = "Z"
	_, err = NewDeriver(fixtureModel(), pm, nil, opts)
	assert.ErrorIs(t, err, structure.ErrMalformedStructure)

	opts = DefaultOptions()
	opts.Threshold = 0
	_, err = NewDeriver(fixtureModel(), pm, nil, opts)
	assert.Error(t, err)
}

func TestOtherChainSegmentsIgnored(t *testing.T) {
	pm, _ := mapping.Build([]mapping.Segment{
		{ReferenceStart: 1, ReferenceEnd: 2, StructureStart: 1, StructureEnd: 2, Chain: "B"},
	})
	d, err := NewDeriver(fixtureModel(), pm, nil, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, d.Derive(1).SpatiallyUnresolved)
}

func TestAnnotateSkipsMissingPositions(t *testing.T) {
	d := fixtureDeriver(t, DefaultOptions())

	records := d.Annotate([]null.Int{null.IntFrom(50), {}, null.IntFrom(10)})
	require.Len(t, records, 2)
	assert.Equal(t, 50, records[0].Position)
	assert.Equal(t, 10, records[1].Position)

	cov := d.Coverage([]null.Int{null.IntFrom(50), {}, null.IntFrom(10)})
	assert.Equal(t, 2, cov.Total)
	assert.Equal(t, []int{50}, cov.Unmapped)
}

func TestParallelMatchesSequential(t *testing.T) {
	positions := make([]int, 0, 300)
	for i := 0; i < 5; i++ {
		for p := 1; p <= 60; p++ {
			positions = append(positions, p)
		}
	}

	sequential := fixtureDeriver(t, DefaultOptions()).AnnotatePositions(positions)

	opts := DefaultOptions()
	opts.Workers = 8
	parallel := fixtureDeriver(t, opts).AnnotatePositions(positions)
	assert.Equal(t, sequential, parallel)

	opts.Index = LinearIndex
	linear := fixtureDeriver(t, opts).AnnotatePositions(positions)
	assert.Equal(t, sequential, linear)
}

func TestWriteCSV(t *testing.T) {
	d := fixtureDeriver(t, DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, d.AnnotatePositions([]int{10, 50}), ','))

	assert.Equal(t, "position,region,is_binding_site,is_interface,is_tm_core,spatially_unresolved,min_distance_to_ligand,min_distance_to_other_chain,radial_distance_from_centroid\n"+
		"10,other,true,false,false,false,4.000,11.180,\n"+
		"50,other,false,false,false,true,,,\n", buf.String())
}

func TestSummarize(t *testing.T) {
	d := fixtureDeriver(t, DefaultOptions())

	records := d.AnnotatePositions([]int{10, 11, 20, 50})
	s := Summarize(records)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Resolved)
	assert.Equal(t, 1, s.BindingSites)
	assert.Equal(t, 1, s.Interface)
	assert.Equal(t, 1, s.TMCore)
	assert.Equal(t, 3, s.LigandDistances)
	assert.InDelta(t, 6.0, s.MedianLigandDistance, 1e-9)
	assert.InDelta(t, 20.0/3, s.MeanLigandDistance, 1e-9)
	assert.Equal(t, 3, s.OtherChainDistances)
	assert.InDelta(t, (math.Sqrt(125)+math.Sqrt(145)+3)/3, s.OtherChainDistanceMean, 1e-9)

	var buf bytes.Buffer
	require.NoError(t, FprintHistogram(&buf, records, 5))
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	require.NoError(t, FprintHistogram(&buf, nil, 5))
	assert.Empty(t, buf.String())
}

func TestContactClusters(t *testing.T) {
	d := fixtureDeriver(t, DefaultOptions())

	// A10 and A11 are 2 A apart; A20 is far from both. 12 and 50 are
	// unresolved.
	assert.Equal(t, [][]int{{10, 11}, {20}}, d.ContactClusters([]int{20, 11, 10, 12, 50, 10}))
	assert.Empty(t, d.ContactClusters(nil))

	records := d.AnnotatePositions([]int{10, 11, 20})
	assert.Equal(t, []int{10}, BindingSitePositions(records))
}

func TestReadCSV(t *testing.T) {
	d := fixtureDeriver(t, DefaultOptions())
	records := d.AnnotatePositions([]int{10, 20, 50})

	for _, comma := range []rune{',', '\t'} {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, records, comma))

		got, err := ReadCSV(&buf)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, records[2], got[2])
		assert.Equal(t, records[0].IsBindingSite, got[0].IsBindingSite)
		assert.InDelta(t, records[1].RadialDistanceFromCentroid.Float64, got[1].RadialDistanceFromCentroid.Float64, 1e-3)
		assert.False(t, got[0].RadialDistanceFromCentroid.Valid)
	}
}
