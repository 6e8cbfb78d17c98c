package enrichment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabulate(t *testing.T) {
	high := []bool{true, true, true, true, false, false, false}
	feature := []bool{true, true, true, false, true, false, false}

	table, err := Tabulate(high, feature)
	require.NoError(t, err)
	assert.Equal(t, Table{A: 3, B: 1, C: 1, D: 2}, table)
	assert.Equal(t, 7, table.N())

	_, err = Tabulate(high, feature[:3])
	assert.Error(t, err)
}

func TestTest(t *testing.T) {
	r := Test("is_binding_site", Table{A: 3, B: 1, C: 2, D: 10})

	assert.InDelta(t, 15.0, r.OddsRatio, 1e-12)
	assert.InDelta(t, 0.98298, r.Lower, 1e-4)
	assert.InDelta(t, 228.896, r.Upper, 1e-2)
	assert.InDelta(t, 0.063187, r.FisherP, 1e-4)
	assert.InDelta(t, 4.7515, r.Table.ChiSquare(), 1e-4)
	assert.InDelta(t, 0.029273, r.ChiSquareP, 1e-5)
}

func TestChiSquareTail(t *testing.T) {
	// Closed form of the 1 df upper tail.
	for _, x := range []float64{0.5, 3.841458820694124, 4.75, 10, 25} {
		assert.InDelta(t, math.Erfc(math.Sqrt(x/2)), chiSquareTail(x), 1e-9, "x=%v", x)
	}
	assert.InDelta(t, 0.05, chiSquareTail(3.841458820694124), 1e-9)
}

func TestZeroCells(t *testing.T) {
	table := Table{A: 0, B: 5, C: 4, D: 6}

	assert.Equal(t, 0.0, table.OddsRatio())

	lower, upper := table.WoolfCI()
	assert.InDelta(t, 0.0057141, lower, 1e-6)
	assert.InDelta(t, 3.01765, upper, 1e-4)

	assert.True(t, math.IsInf(Table{A: 2, B: 0, C: 3, D: 4}.OddsRatio(), 1))
	assert.True(t, math.IsNaN(Table{A: 0, B: 0, C: 3, D: 4}.OddsRatio()))
}

func TestEmptyMargin(t *testing.T) {
	// No high-priority variants at all.
	table := Table{A: 0, B: 0, C: 4, D: 6}
	assert.Equal(t, 0.0, table.ChiSquare())
	assert.Equal(t, 1.0, table.ChiSquareP())
	assert.Equal(t, 1.0, table.FisherP())
}
