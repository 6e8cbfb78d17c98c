package mapping

import (
	"fmt"
	"sort"
)

// Coverage describes how many distinct queried reference positions resolve
// through a PositionMap. It is a data-quality signal only.
type Coverage struct {
	Total    int
	Mapped   []int
	Unmapped []int
	Ratio    float64
}

// Coverage tallies distinct positions as mapped or unmapped. Both lists are
// sorted. The ratio is 0 when no positions are given.
func (pm *PositionMap) Coverage(positions []int) Coverage {
	seen := make(map[int]struct{}, len(positions))
	out := Coverage{
		Mapped:   make([]int, 0),
		Unmapped: make([]int, 0),
	}

	for _, p := range positions {
		if _, exists := seen[p]; exists {
			continue
		}
		seen[p] = struct{}{}

		if _, ok := pm.Lookup(p); ok {
			out.Mapped = append(out.Mapped, p)
		} else {
			out.Unmapped = append(out.Unmapped, p)
		}
	}

	sort.Ints(out.Mapped)
	sort.Ints(out.Unmapped)

	out.Total = len(seen)
	if out.Total > 0 {
		out.Ratio = float64(len(out.Mapped)) / float64(out.Total)
	}

	return out
}

// Below reports whether the coverage ratio falls under threshold.
func (c Coverage) Below(threshold float64) bool {
	return c.Ratio < threshold
}

func (c Coverage) String() string {
	return fmt.Sprintf("Mappable variants: %d / %d (%.2f%%)", len(c.Mapped), c.Total, 100*c.Ratio)
}
