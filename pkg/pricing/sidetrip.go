package pricing

import (
	"context"

	"github.com/matzehuels/farepath/pkg/itin"
)

// sideTripCombo assigns one pricing unit path to every side trip of every
// main market that has side trips.
type sideTripCombo = map[*itin.MergedFareMarket][]*PUPath

// buildSideTrips builds every side trip path of fmp on its own budget and
// returns all combinations of their results. ok is false when some side
// trip path yields nothing, which discards the whole fare market path.
func (m *Matrix) buildSideTrips(ctx context.Context, fmp *itin.FareMarketPath) (combos []sideTripCombo, ok bool, err error) {
	markets := fmp.SideTripMarkets()
	if len(markets) == 0 {
		return nil, true, nil
	}
	perMarket := make([][][]*PUPath, len(markets))
	for i, fm := range markets {
		var results [][]*PUPath
		for _, st := range fmp.SideTrips[fm] {
			paths, err := m.newSearch(ctx, fmp, st.Markets).run()
			if err != nil {
				return nil, false, err
			}
			if len(paths) == 0 {
				m.logger.Debug("side trip has no pu path", "path", fmp, "side_trip", st)
				return nil, false, nil
			}
			results = append(results, paths)
		}
		perMarket[i] = cartesian(results)
	}

	// every market's side trip choices crossed with every other market's
	for _, choice := range cartesian(perMarket) {
		combo := make(sideTripCombo, len(markets))
		for i, fm := range markets {
			combo[fm] = choice[i]
		}
		combos = append(combos, combo)
	}
	return combos, true, nil
}

// cartesian returns every selection of one element per set, the first set
// varying slowest. No sets yields one empty selection.
func cartesian[T any](sets [][]T) [][]T {
	out := [][]T{{}}
	for _, set := range sets {
		next := make([][]T, 0, len(out)*len(set))
		for _, prefix := range out {
			for _, v := range set {
				sel := make([]T, len(prefix), len(prefix)+1)
				copy(sel, prefix)
				next = append(next, append(sel, v))
			}
		}
		out = next
	}
	return out
}

// combineSideTrips attaches each combination to a copy of each main path.
// Side trip paths are shared between the copies.
func combineSideTrips(main []*PUPath, combos []sideTripCombo) []*PUPath {
	if len(main) == 0 {
		return nil
	}
	if len(combos) == 0 {
		return main
	}
	out := make([]*PUPath, 0, len(combos)*len(main))
	for _, combo := range combos {
		for _, p := range main {
			c := p.clone()
			c.SideTrips = combo
			out = append(out, c)
		}
	}
	return out
}
