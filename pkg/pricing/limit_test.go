package pricing

import (
	"testing"

	"github.com/matzehuels/farepath/pkg/itin"
)

func TestLimitFareMarketPaths(t *testing.T) {
	var j journey
	a := j.market("LON", "PAR", itin.International)
	b := j.market("PAR", "FRA", itin.International)
	c := j.market("FRA", "LON", itin.International)

	var paths []*itin.FareMarketPath
	for range 3000 {
		paths = append(paths, path(a))
	}
	for range 2000 {
		paths = append(paths, path(a, b))
	}
	for range 1000 {
		paths = append(paths, path(a, b, c))
	}
	first3 := paths[5000]

	got := LimitFareMarketPaths(paths, DefaultMaxPUPaths)
	if len(got) > DefaultMaxPUPaths {
		t.Fatalf("got %d paths, want at most %d", len(got), DefaultMaxPUPaths)
	}

	// 5000/3 per group, the three market group is smaller than that
	counts := map[int]int{}
	for _, p := range got {
		counts[p.FareBreakCount()]++
	}
	if counts[1] != 1666 || counts[2] != 1666 || counts[3] != 1000 {
		t.Errorf("per group counts = %v, want 1666/1666/1000", counts)
	}
	for i := 1; i < len(got); i++ {
		if got[i].FareBreakCount() < got[i-1].FareBreakCount() {
			t.Fatalf("groups out of order at %d", i)
		}
	}
	if got[0] != paths[0] || got[1666] != paths[3000] || got[3332] != first3 {
		t.Error("input order should be kept within a group")
	}

	small := paths[:10]
	if got := LimitFareMarketPaths(small, DefaultMaxPUPaths); len(got) != 10 {
		t.Errorf("under the limit: got %d paths, want 10", len(got))
	}
}

func TestLimitManyGroups(t *testing.T) {
	var j journey
	fm := j.market("LON", "PAR", itin.International)
	var paths []*itin.FareMarketPath
	for n := 1; n <= 6; n++ {
		markets := make([]*itin.MergedFareMarket, n)
		for i := range markets {
			markets[i] = fm
		}
		paths = append(paths, path(markets...), path(markets...))
	}
	// more groups than the limit still keeps one path per group
	if got := LimitFareMarketPaths(paths, 4); len(got) != 6 {
		t.Errorf("got %d paths, want 6", len(got))
	}
}
