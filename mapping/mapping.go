// Package mapping translates reference-sequence positions (e.g. UniProt
// numbering) into structure residue numbers using a table of aligned,
// equal-length segments supplied by an external cross-reference service.
package mapping

import (
	"fmt"
	"log"
	"sort"
)

// Segment aligns the inclusive reference range [ReferenceStart, ReferenceEnd]
// with the inclusive structure range [StructureStart, StructureEnd] on one
// chain.
type Segment struct {
	ReferenceStart int
	ReferenceEnd   int
	StructureStart int
	StructureEnd   int
	Chain          string
}

func (s Segment) String() string {
	return fmt.Sprintf("REF %d-%d vs %s %d-%d", s.ReferenceStart, s.ReferenceEnd, s.Chain, s.StructureStart, s.StructureEnd)
}

// Consistent reports whether both ranges have the same length and run
// forward.
func (s Segment) Consistent() bool {
	return s.ReferenceEnd >= s.ReferenceStart &&
		s.ReferenceEnd-s.ReferenceStart == s.StructureEnd-s.StructureStart
}

// Mismatch records a rejected segment. Reference positions inside it resolve
// as unmapped unless another accepted segment covers them.
type Mismatch struct {
	Index   int
	Segment Segment
}

func (m Mismatch) String() string {
	return fmt.Sprintf("segment #%d mismatch - %s", m.Index, m.Segment)
}

// Target is the structure residue a reference position maps to.
type Target struct {
	Chain  string
	Number int
}

// PositionMap is the fully expanded reference -> structure table. It is never
// modified after Build returns, so lookups are safe from any goroutine.
type PositionMap struct {
	table map[int]Target
}

// Build expands every consistent segment position by position. Segments whose
// reference and structure lengths disagree are skipped, logged, and returned
// as mismatches. When segments overlap, the later one wins.
func Build(segments []Segment) (*PositionMap, []Mismatch) {
	pm := &PositionMap{table: make(map[int]Target)}
	mismatches := make([]Mismatch, 0)

	for i, seg := range segments {
		if !seg.Consistent() {
			mm := Mismatch{Index: i, Segment: seg}
			log.Printf("Warning: %s\n", mm)
			mismatches = append(mismatches, mm)
			continue
		}

		for offset := 0; offset <= seg.ReferenceEnd-seg.ReferenceStart; offset++ {
			pm.table[seg.ReferenceStart+offset] = Target{
				Chain:  seg.Chain,
				Number: seg.StructureStart + offset,
			}
		}
	}

	return pm, mismatches
}

// Lookup returns the structure residue for a reference position. The second
// return value is false when the position is unmapped.
func (pm *PositionMap) Lookup(reference int) (Target, bool) {
	if pm == nil {
		return Target{}, false
	}
	t, ok := pm.table[reference]
	return t, ok
}

// Len returns the number of mapped reference positions.
func (pm *PositionMap) Len() int {
	if pm == nil {
		return 0
	}
	return len(pm.table)
}

// Positions returns every mapped reference position in ascending order.
func (pm *PositionMap) Positions() []int {
	out := make([]int, 0, pm.Len())
	if pm == nil {
		return out
	}
	for k := range pm.table {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
