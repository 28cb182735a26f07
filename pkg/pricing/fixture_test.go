package pricing

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
	"github.com/matzehuels/farepath/pkg/refdata"
)

var testLocs = map[string]*geo.Loc{
	"NYC": {Code: "NYC", Nation: "US", Area: "1", SubArea: "11", Lat: 40.71, Lon: -74.01},
	"CHI": {Code: "CHI", Nation: "US", Area: "1", SubArea: "11", Lat: 41.88, Lon: -87.63},
	"LAX": {Code: "LAX", Nation: "US", Area: "1", SubArea: "11", Lat: 33.94, Lon: -118.41},
	"HNL": {Code: "HNL", Nation: "US", Area: "1", SubArea: "11", Lat: 21.32, Lon: -157.92},
	"GUM": {Code: "GUM", Nation: "US", Area: "3", SubArea: "32", Lat: 13.48, Lon: 144.80},
	"LON": {Code: "LON", Nation: "GB", Area: "2", SubArea: "21", Zones: []string{"210"}, Lat: 51.51, Lon: -0.13},
	"MAN": {Code: "MAN", Nation: "GB", Area: "2", SubArea: "21", Zones: []string{"210"}, Lat: 53.48, Lon: -2.24},
	"PAR": {Code: "PAR", Nation: "FR", Area: "2", SubArea: "21", Zones: []string{"210"}, Lat: 48.86, Lon: 2.35},
	"FRA": {Code: "FRA", Nation: "DE", Area: "2", SubArea: "21", Zones: []string{"210"}, Lat: 50.11, Lon: 8.68},
	"CPH": {Code: "CPH", Nation: "DK", Area: "2", SubArea: "21", Zones: []string{"210"}, Lat: 55.68, Lon: 12.57},
	"OSL": {Code: "OSL", Nation: "NO", Area: "2", SubArea: "21", Zones: []string{"210"}, Lat: 59.91, Lon: 10.75},
	"TYO": {Code: "TYO", Nation: "JP", Area: "3", SubArea: "33", Lat: 35.68, Lon: 139.69},
	"SYD": {Code: "SYD", Nation: "AU", Area: "3", SubArea: "32", Lat: -33.87, Lon: 151.21},
	"MEL": {Code: "MEL", Nation: "AU", Area: "3", SubArea: "32", Lat: -37.81, Lon: 144.96},
	"YYZ": {Code: "YYZ", Nation: "CA", Area: "1", SubArea: "11", Lat: 43.68, Lon: -79.63},
	"CUR": {Code: "CUR", Nation: "CW", Area: "1", SubArea: "12", Lat: 12.19, Lon: -68.96},
	"AUA": {Code: "AUA", Nation: "AW", Area: "1", SubArea: "12", Lat: 12.50, Lon: -70.02},
	"BNE": {Code: "BNE", Nation: "AU", Area: "3", SubArea: "32", Lat: -27.47, Lon: 153.03},
}

// fakeRef serves carrier preferences and circle trip provisions from
// maps; it has no same point table.
type fakeRef struct {
	prefs      map[string]refdata.CarrierPreference
	provisions map[[2]string]bool
}

func (r fakeRef) CarrierPreference(cxr string) refdata.CarrierPreference {
	if p, ok := r.prefs[cxr]; ok {
		return p
	}
	return refdata.CarrierPreference{Carrier: cxr}
}

func (r fakeRef) CircleTripProvision(from, to string) bool {
	return r.provisions[[2]string{from, to}]
}

func (fakeRef) HasSamePoints() bool                                { return false }
func (fakeRef) SameDisplayLoc(string, string, string, string) bool { return false }

// journey numbers segments as markets are added.
type journey struct {
	segs []*itin.TravelSeg
}

func (j *journey) market(from, to string, g itin.GeoTravelType) *itin.MergedFareMarket {
	return j.add(from, to, g, false)
}

func (j *journey) surface(from, to string, g itin.GeoTravelType) *itin.MergedFareMarket {
	return j.add(from, to, g, true)
}

func (j *journey) add(from, to string, g itin.GeoTravelType, arunk bool) *itin.MergedFareMarket {
	seg := &itin.TravelSeg{
		Number:      len(j.segs) + 1,
		Origin:      testLocs[from],
		Destination: testLocs[to],
		Carrier:     "BA",
		Arunk:       arunk,
	}
	j.segs = append(j.segs, seg)
	return &itin.MergedFareMarket{
		ID:                fmt.Sprintf("%d%s%s", seg.Number, from, to),
		Segments:          []*itin.TravelSeg{seg},
		GlobalDirection:   "AT",
		GeoTravelType:     g,
		GoverningCarriers: []string{"BA"},
	}
}

func (j *journey) itin() *itin.Itin {
	return &itin.Itin{
		Segments:      j.segs,
		GeoTravelType: itin.Classify(j.segs),
		Legs:          len(j.segs),
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.TestMode = true
	cfg.Workers = 1
	return cfg
}

func newTestMatrix(t *testing.T, it *itin.Itin, cfg Config) *Matrix {
	t.Helper()
	return newTestMatrixRef(t, it, cfg, fakeRef{})
}

func newTestMatrixRef(t *testing.T, it *itin.Itin, cfg Config, ref fakeRef) *Matrix {
	t.Helper()
	m, err := New(it, ref, cfg, WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return m
}

func build(t *testing.T, m *Matrix, paths ...*itin.FareMarketPath) []*PUPath {
	t.Helper()
	if _, err := m.BuildAll(context.Background(), paths, nil); err != nil {
		t.Fatalf("BuildAll error: %v", err)
	}
	return m.Paths()
}

func path(markets ...*itin.MergedFareMarket) *itin.FareMarketPath {
	return &itin.FareMarketPath{Markets: markets}
}

// checkPartition fails unless every path covers its markets exactly once.
func checkPartition(t *testing.T, paths []*PUPath) {
	t.Helper()
	for _, p := range paths {
		seen := make(map[*itin.MergedFareMarket]int)
		for _, fm := range p.Markets() {
			seen[fm]++
		}
		for _, fm := range p.Path.Markets {
			if seen[fm] != 1 {
				t.Errorf("path %s covers %s %d times", p, fm, seen[fm])
			}
		}
		if len(seen) != len(p.Path.Markets) {
			t.Errorf("path %s covers %d markets, want %d", p, len(seen), len(p.Path.Markets))
		}
	}
}

func countType(p *PUPath, typ PUType) int {
	n := 0
	for _, pu := range p.PUs {
		if pu.Type == typ {
			n++
		}
	}
	return n
}

func dirs(pu *PU) string {
	s := ""
	for _, d := range pu.Directions {
		s += d.String()
	}
	return s
}
