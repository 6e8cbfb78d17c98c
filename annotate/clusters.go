package annotate

import (
	"sort"

	"github.com/carbocation/structmap/geometry"
	"github.com/theodesp/unionfind"
)

// ContactClusters groups positions whose residues come within the proximity
// threshold of each other, heavy atom to heavy atom. Unresolved positions are
// dropped. Each cluster is sorted, and clusters are ordered by their first
// position. Typical use is on the binding-site positions, to count distinct
// pockets.
func (d *Deriver) ContactClusters(positions []int) [][]int {
	seen := make(map[int]struct{}, len(positions))
	resolved := make([]int, 0, len(positions))
	for _, p := range positions {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if len(d.resolve(p)) > 0 {
			resolved = append(resolved, p)
		}
	}
	sort.Ints(resolved)

	uf := unionfind.NewThreadSafeUnionFind(len(resolved))
	for i := range resolved {
		ai := d.resolve(resolved[i])
		for j := i + 1; j < len(resolved); j++ {
			dist, ok := geometry.MinAtomDistance(ai, d.resolve(resolved[j]))
			if ok && dist <= d.opts.Threshold {
				uf.Union(i, j)
			}
		}
	}

	byRoot := make(map[int][]int)
	roots := make([]int, 0)
	for i, p := range resolved {
		root := uf.Root(i)
		if _, exists := byRoot[root]; !exists {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], p)
	}

	out := make([][]int, 0, len(roots))
	for _, root := range roots {
		out = append(out, byRoot[root])
	}

	return out
}

// BindingSitePositions returns the positions flagged as binding site.
func BindingSitePositions(records []Record) []int {
	out := make([]int, 0)
	for _, r := range records {
		if r.IsBindingSite {
			out = append(out, r.Position)
		}
	}
	return out
}
