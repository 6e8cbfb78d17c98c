package regions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chrna7Features = `{
  "primaryAccession": "P36544",
  "features": [
    {"type": "Signal", "location": {"start": {"value": 1}, "end": {"value": 22}}},
    {"type": "Topological domain", "description": "Extracellular", "location": {"start": {"value": 23}, "end": {"value": 230}}},
    {"type": "Transmembrane", "description": "Helical", "location": {"start": {"value": 231}, "end": {"value": 251}}},
    {"type": "Topological domain", "description": "Cytoplasmic", "location": {"start": {"value": 252}, "end": {"value": 256}}},
    {"type": "Transmembrane", "description": "Helical", "location": {"start": {"value": 257}, "end": {"value": 277}}},
    {"type": "Topological domain", "description": "Extracellular", "location": {"start": {"value": 278}, "end": {"value": 290}}},
    {"type": "Transmembrane", "description": "Helical", "location": {"start": {"value": 291}, "end": {"value": 312}}},
    {"type": "Topological domain", "description": "Cytoplasmic", "location": {"start": {"value": 313}, "end": {"value": 479}}},
    {"type": "Transmembrane", "description": "Helical", "location": {"start": {"value": 480}, "end": {"value": 502}}},
    {"type": "Disulfide bond", "location": {"start": {"value": 150}, "end": {"value": 164}}},
    {"type": "Modified residue", "location": {"start": {"value": 40}}}
  ]
}`

func TestParseUniProtFeatures(t *testing.T) {
	table, err := ParseUniProtFeatures(strings.NewReader(chrna7Features))
	require.NoError(t, err)

	assert.Equal(t, Table{
		{Name: "signal_peptide", Start: 1, End: 22},
		{Name: "extracellular_domain", Start: 23, End: 230},
		{Name: "M1", Start: 231, End: 251},
		{Name: "intracellular_loop", Start: 313, End: 479},
		{Name: "M2", Start: 257, End: 277},
		{Name: "M3", Start: 291, End: 312},
		{Name: "M4", Start: 480, End: 502},
	}, table)

	for pos, expected := range map[int]string{
		1:   "signal_peptide",
		100: "extracellular_domain",
		260: "M2",
		285: Unassigned,
		400: "intracellular_loop",
		502: "M4",
		503: Unassigned,
	} {
		assert.Equal(t, expected, table.Label(pos), "position %d", pos)
	}
}

func TestFromBounds(t *testing.T) {
	table, err := FromBounds(map[string][2]int{
		"m2":                   {257, 277},
		"extracellular_domain": {23, 230},
		"m1":                   {231, 251},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"extracellular_domain", "m1", "m2"}, []string{table[0].Name, table[1].Name, table[2].Name})
	assert.Equal(t, [2]int{257, 277}, table.Bounds()["m2"])

	_, err = FromBounds(map[string][2]int{"bad": {10, 5}})
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	tm := []string{"M1", "M2", "M3", "M4"}
	assert.True(t, Matches("m2", tm))
	assert.True(t, Matches("M4", tm))
	assert.False(t, Matches("intracellular_loop", tm))
	assert.False(t, Matches("M2", nil))
}

func TestFunc(t *testing.T) {
	var l Labeler = Func(func(int) string { return "M2" })
	assert.Equal(t, "M2", l.Label(42))
}
