package pricing

import (
	"context"
	"testing"

	"github.com/matzehuels/farepath/pkg/itin"
	"github.com/matzehuels/farepath/pkg/refdata"
)

func TestCircleTripProvisionBridge(t *testing.T) {
	tests := []struct {
		name       string
		provisions map[[2]string]bool
		wantCT     bool
	}{
		{"no provision", nil, false},
		{"provision on the surface sector", map[[2]string]bool{{"PAR", "FRA"}: true}, true},
		{"provision on another sector", map[[2]string]bool{{"FRA", "PAR"}: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// LON-PAR, surface PAR-FRA, FRA-LON
			var j journey
			out := j.market("LON", "PAR", itin.International)
			j.surface("PAR", "FRA", itin.International)
			in := j.market("FRA", "LON", itin.International)

			m := newTestMatrixRef(t, j.itin(), testConfig(), fakeRef{provisions: tt.provisions})
			paths := build(t, m, path(out, in))
			checkPartition(t, paths)

			var ct *PU
			for _, p := range paths {
				for _, pu := range p.PUs {
					if pu.Type == CircleTrip {
						ct = pu
					}
				}
			}
			if got := ct != nil; got != tt.wantCT {
				t.Fatalf("circle trip built = %v, want %v", got, tt.wantCT)
			}
			if ct == nil {
				return
			}
			if ct.FCCount != 2 || ct.Markets[0] != out || ct.Markets[1] != in {
				t.Errorf("CT = %s, want both markets", ct)
			}
			if got := dirs(ct); got != "OI" {
				t.Errorf("CT directions = %s, want OI", got)
			}
		})
	}
}

func TestSpecialEuropeanDoubleOpenJaw(t *testing.T) {
	tests := []struct {
		name  string
		prefs map[string]refdata.CarrierPreference
		want  bool
	}{
		{"carrier opts in", map[string]refdata.CarrierPreference{"BA": {Carrier: "BA", ApplySpclDOJEurope: true}}, true},
		{"carrier does not opt in", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// LON-PAR // LON-FRA: both surfaces cross a border inside Europe
			var j journey
			out := j.market("LON", "PAR", itin.International)
			in := j.market("LON", "FRA", itin.International)

			m := newTestMatrixRef(t, j.itin(), testConfig(), fakeRef{prefs: tt.prefs})
			m.determineItinTravelBoundary()
			if !m.isSpecialEuropeanDoubleOJ(out.Origin(), out.Destination(), in.Origin(), in.Destination()) {
				t.Fatal("isSpecialEuropeanDoubleOJ = false, want true")
			}

			s := m.newSearch(context.Background(), path(out, in), []*itin.MergedFareMarket{out, in})
			c, ok := s.isValidOpenJawTrip([]*itin.MergedFareMarket{out}, []*itin.MergedFareMarket{in}, itin.International)
			if ok != tt.want {
				t.Fatalf("isValidOpenJawTrip = %v, want %v", ok, tt.want)
			}
			if !ok {
				return
			}
			if !c.specialEuropeanDOJ || c.ojType != DoubleOpenJaw {
				t.Errorf("check = %+v, want a special European double open jaw", c)
			}
			if c.sameNation {
				t.Error("surfaces across European borders are not within one country")
			}
		})
	}
}

func TestTurnaroundOpenJawBetweenAreas(t *testing.T) {
	tests := []struct {
		name          string
		shorter       bool
		longer        bool
		want          bool
		wantInvalidBA bool
	}{
		{"no preference", false, false, false, true},
		{"up to the shorter component", true, false, false, true},
		{"up to the longer component", false, true, true, false},
		{"both", true, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// NYC-LON // TYO-NYC: the LON-TYO surface lies between the
			// NYC-LON and TYO-NYC components in length
			var j journey
			out := j.market("NYC", "LON", itin.International)
			in := j.market("TYO", "NYC", itin.International)

			ref := fakeRef{prefs: map[string]refdata.CarrierPreference{"BA": {
				Carrier:                          "BA",
				ApplySingleTOJBetwAreasShorterFC: tt.shorter,
				ApplySingleTOJBetwAreasLongerFC:  tt.longer,
			}}}
			m := newTestMatrixRef(t, j.itin(), testConfig(), ref)
			m.determineItinTravelBoundary()

			s := m.newSearch(context.Background(), path(out, in), []*itin.MergedFareMarket{out, in})
			c, ok := s.isValidOpenJawTrip([]*itin.MergedFareMarket{out}, []*itin.MergedFareMarket{in}, itin.International)
			if ok != tt.want {
				t.Fatalf("isValidOpenJawTrip = %v, want %v", ok, tt.want)
			}
			if !ok {
				return
			}
			if c.ojType != DestOpenJaw || !c.betweenAreas {
				t.Errorf("check = %+v, want a destination open jaw between areas", c)
			}
			if got := len(c.invalidCxr) > 0; got != tt.wantInvalidBA {
				t.Errorf("invalid carriers = %v", c.invalidCxr)
			}
			if c.surface != SurfaceNotShortest {
				t.Errorf("surface = %v, want %v", c.surface, SurfaceNotShortest)
			}
		})
	}
}

func TestReducedConstructions(t *testing.T) {
	var j journey
	var ms []*itin.MergedFareMarket
	route := []string{"LON", "PAR", "FRA", "CPH", "OSL", "MAN", "LON"}
	for i := 1; i < len(route); i++ {
		ms = append(ms, j.market(route[i-1], route[i], itin.International))
	}
	unit := func(typ PUType, markets ...*itin.MergedFareMarket) *PU {
		return &PU{Type: typ, FCCount: len(markets), Markets: markets}
	}

	tests := []struct {
		name    string
		legs    int
		pus     []*PU
		reduced bool
		want    bool
	}{
		{"three component open jaw", 6, []*PU{unit(OpenJaw, ms[0], ms[1], ms[2])}, false, true},
		{"three component open jaw reduced", 6, []*PU{unit(OpenJaw, ms[0], ms[1], ms[2])}, true, false},
		{"three component circle reduced", 6, []*PU{unit(CircleTrip, ms[0], ms[1], ms[2])}, true, true},
		{"four component circle reduced", 6, []*PU{unit(CircleTrip, ms[0], ms[1], ms[2], ms[3])}, true, false},
		{"over the component cap", 2, []*PU{
			unit(CircleTrip, ms[0], ms[1], ms[2]),
			unit(CircleTrip, ms[3], ms[4], ms[5]),
		}, true, false},
		{"cap follows the leg count", 6, []*PU{
			unit(CircleTrip, ms[0], ms[1], ms[2]),
			unit(CircleTrip, ms[3], ms[4], ms[5]),
		}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := j.itin()
			it.Legs = tt.legs
			cfg := testConfig()
			cfg.ReducedConstructions = tt.reduced
			m := newTestMatrix(t, it, cfg)

			var markets []*itin.MergedFareMarket
			for _, pu := range tt.pus {
				markets = append(markets, pu.Markets...)
			}
			p := &PUPath{PUs: tt.pus}
			if got := m.isPUPathValid(path(markets...), p, len(markets)); got != tt.want {
				t.Errorf("isPUPathValid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBudgetStopsSearch(t *testing.T) {
	var j journey
	out := j.market("LON", "PAR", itin.International)
	out.Tag2 = itin.Tag2Present
	in := j.market("PAR", "LON", itin.International)

	cfg := testConfig()
	cfg.MaxPUPaths = 1
	m := newTestMatrix(t, j.itin(), cfg)
	paths := build(t, m, path(out, in))

	// the round trip is found first; the one way branch never runs
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1: %v", len(paths), paths)
	}
	if countType(paths[0], RoundTrip) != 1 {
		t.Errorf("paths[0] = %s, want the round trip", paths[0])
	}

	b := &budget{max: 2}
	b.add()
	if b.done {
		t.Error("budget done after 1 of 2")
	}
	b.add()
	if !b.done {
		t.Error("budget not done after 2 of 2")
	}
}

func TestBuildAllLimitsAcrossGroups(t *testing.T) {
	var j journey
	a := j.market("LON", "PAR", itin.International)
	b := j.market("PAR", "FRA", itin.International)
	c := j.market("FRA", "LON", itin.International)

	var fmps []*itin.FareMarketPath
	for range 4 {
		fmps = append(fmps, path(a), path(a, b), path(a, b, c))
	}

	cfg := testConfig()
	cfg.MaxPUPaths = 6
	m := newTestMatrix(t, j.itin(), cfg)
	paths := build(t, m, fmps...)

	st := m.Stats()
	if st.InputPaths != 12 || st.BuiltPaths != 6 || !st.Truncated {
		t.Errorf("Stats = %+v, want 12 input, 6 built, truncated", st)
	}
	if m.MaxPUPathPerPath() != 1 {
		t.Errorf("MaxPUPathPerPath = %d, want 1", m.MaxPUPathPerPath())
	}

	groups := map[int]int{}
	for _, p := range paths {
		groups[p.Path.FareBreakCount()]++
	}
	if len(paths) != 6 || groups[1] != 2 || groups[2] != 2 || groups[3] != 2 {
		t.Errorf("got %d paths in groups %v, want 2 per fare break count", len(paths), groups)
	}
}

func TestBuildAllEmptyMarketPath(t *testing.T) {
	var j journey
	j.market("LON", "PAR", itin.International)
	it := j.itin()
	it.RoundTheWorld = true

	m := newTestMatrix(t, it, testConfig())
	if got := build(t, m, path()); len(got) != 0 {
		t.Errorf("got %d paths from an empty market path, want 0", len(got))
	}
}

func TestOpenJawAfterAssignedInternationalMarket(t *testing.T) {
	tests := []struct {
		name  string
		first itin.GeoTravelType
		want  int
	}{
		{"international market covered", itin.International, 0},
		{"domestic market covered", itin.Domestic, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var j journey
			from := "LON"
			if tt.first == itin.Domestic {
				from = "CHI"
			}
			a := j.market(from, "NYC", tt.first)
			b := j.market("NYC", "CHI", itin.Domestic)
			c := j.market("CHI", "LAX", itin.Domestic)
			d := j.market("HNL", "NYC", itin.Domestic)
			b.Tag2 = itin.Tag2Present

			m := newTestMatrix(t, j.itin(), testConfig())
			m.determineItinTravelBoundary()
			markets := []*itin.MergedFareMarket{a, b, c, d}
			s := m.newSearch(context.Background(), path(markets...), markets)

			covered := &PUPath{}
			covered.push(buildOWPU(a))
			// NYC-CHI-LAX // HNL-NYC as a three component open jaw
			s.buildOJ(2, 1, 0, 3, covered)
			if s.err != nil {
				t.Fatalf("search error: %v", s.err)
			}
			if len(s.results) != tt.want {
				t.Errorf("got %d paths, want %d: %v", len(s.results), tt.want, s.results)
			}
		})
	}
}
