// Package regions assigns a domain label to each reference-sequence position
// (signal peptide, extracellular domain, transmembrane helices M1..Mn, ...).
package regions

import (
	"fmt"
	"sort"
	"strings"
)

// Unassigned is the label for positions outside every region.
const Unassigned = "other"

// Labeler maps a reference position to a region label.
type Labeler interface {
	Label(position int) string
}

// Region is an inclusive range of reference positions.
type Region struct {
	Name  string
	Start int
	End   int
}

func (r Region) Contains(position int) bool {
	return r.Start <= position && position <= r.End
}

func (r Region) String() string {
	return fmt.Sprintf("%s[%d-%d]", r.Name, r.Start, r.End)
}

// Table is an ordered list of regions. When regions overlap, the first one
// listed wins.
type Table []Region

// Label returns the name of the first region containing position, or
// Unassigned.
func (t Table) Label(position int) string {
	for _, r := range t {
		if r.Contains(position) {
			return r.Name
		}
	}

	return Unassigned
}

// Bounds returns the table as name -> [start, end], the layout used by the
// parameter file.
func (t Table) Bounds() map[string][2]int {
	out := make(map[string][2]int, len(t))
	for _, r := range t {
		out[r.Name] = [2]int{r.Start, r.End}
	}
	return out
}

// FromBounds builds a table from name -> [start, end]. Map order is not
// stable, so regions are sorted by start, then name.
func FromBounds(bounds map[string][2]int) (Table, error) {
	out := make(Table, 0, len(bounds))
	for name, b := range bounds {
		if b[1] < b[0] {
			return nil, fmt.Errorf("region %s ends (%d) before it starts (%d)", name, b[1], b[0])
		}
		out = append(out, Region{Name: name, Start: b[0], End: b[1]})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}

// Matches reports whether label is one of set, ignoring case. Older
// parameter files use m1..m4 rather than M1..M4.
func Matches(label string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(label, s) {
			return true
		}
	}
	return false
}

// Func adapts an ordinary function to the Labeler interface.
type Func func(position int) string

func (f Func) Label(position int) string {
	return f(position)
}
