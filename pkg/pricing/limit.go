package pricing

import (
	"slices"

	"github.com/matzehuels/farepath/pkg/itin"
)

// LimitFareMarketPaths caps paths at limit. Paths are grouped by fare break
// count; each group keeps at most limit/groups paths, groups are emitted in
// ascending fare break count and the input order is kept within a group.
// Slices of at most limit paths are returned unchanged.
func LimitFareMarketPaths(paths []*itin.FareMarketPath, limit int) []*itin.FareMarketPath {
	if limit <= 0 || len(paths) <= limit {
		return paths
	}

	groups := make(map[int][]*itin.FareMarketPath)
	for _, p := range paths {
		n := p.FareBreakCount()
		groups[n] = append(groups[n], p)
	}
	counts := make([]int, 0, len(groups))
	for n := range groups {
		counts = append(counts, n)
	}
	slices.Sort(counts)

	average := max(limit/len(counts), 1)
	out := make([]*itin.FareMarketPath, 0, limit)
	for _, n := range counts {
		g := groups[n]
		if len(g) > average {
			g = g[:average]
		}
		out = append(out, g...)
	}
	return out
}
