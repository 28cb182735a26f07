package itin

import (
	"testing"

	"github.com/matzehuels/farepath/pkg/geo"
)

var (
	nyc = &geo.Loc{Code: "JFK", City: "NYC", Nation: "US", Area: geo.Area1}
	chi = &geo.Loc{Code: "ORD", City: "CHI", Nation: "US", Area: geo.Area1}
	yto = &geo.Loc{Code: "YYZ", City: "YTO", Nation: "CA", Area: geo.Area1}
	lon = &geo.Loc{Code: "LHR", City: "LON", Nation: "GB", Area: geo.Area2}
	man = &geo.Loc{Code: "MAN", Nation: "GB", Area: geo.Area2}
)

func seg(n int, from, to *geo.Loc) *TravelSeg {
	return &TravelSeg{Number: n, Origin: from, Destination: to, Carrier: "AA"}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		segs []*TravelSeg
		want GeoTravelType
	}{
		{"empty", nil, GeoUnknown},
		{"us domestic", []*TravelSeg{seg(1, nyc, chi)}, Domestic},
		{"transborder", []*TravelSeg{seg(1, nyc, yto)}, Transborder},
		{"foreign domestic", []*TravelSeg{seg(1, lon, man)}, ForeignDomestic},
		{"international", []*TravelSeg{seg(1, nyc, chi), seg(2, chi, lon)}, International},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.segs); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeoTravelTypeText(t *testing.T) {
	for _, g := range []GeoTravelType{Domestic, Transborder, ForeignDomestic, International} {
		b, _ := g.MarshalText()
		var got GeoTravelType
		if err := got.UnmarshalText(b); err != nil || got != g {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", b, got, err, g)
		}
	}
	var g GeoTravelType
	if err := g.UnmarshalText([]byte("intergalactic")); err == nil {
		t.Error("UnmarshalText(intergalactic) error = nil")
	}
}

func TestTag2Text(t *testing.T) {
	var tag Tag2
	if err := tag.UnmarshalText([]byte("Present")); err != nil || tag != Tag2Present {
		t.Errorf("UnmarshalText(Present) = %v, %v", tag, err)
	}
	if err := tag.UnmarshalText([]byte("")); err != nil || tag != Tag2NonIssue {
		t.Errorf("UnmarshalText(\"\") = %v, %v", tag, err)
	}
	if err := tag.UnmarshalText([]byte("maybe")); err == nil {
		t.Error("UnmarshalText(maybe) error = nil")
	}
}

func TestFareMarketPath(t *testing.T) {
	m1 := &MergedFareMarket{ID: "m1", Segments: []*TravelSeg{seg(1, nyc, lon)}, GoverningCarriers: []string{"BA"}}
	m2 := &MergedFareMarket{ID: "m2", Segments: []*TravelSeg{seg(4, lon, nyc)}, GoverningCarriers: []string{"BA"}}
	st := &FareMarketPath{Markets: []*MergedFareMarket{
		{ID: "s1", Segments: []*TravelSeg{seg(2, lon, man)}, GoverningCarriers: []string{"BA"}},
		{ID: "s2", Segments: []*TravelSeg{seg(3, man, lon)}, GoverningCarriers: []string{"BA"}},
	}}
	p := &FareMarketPath{
		Markets:   []*MergedFareMarket{m1, m2},
		SideTrips: map[*MergedFareMarket][]*FareMarketPath{m1: {st}},
	}
	if got := p.FareBreakCount(); got != 4 {
		t.Errorf("FareBreakCount() = %d, want 4", got)
	}
	if got := p.SideTripMarkets(); len(got) != 1 || got[0] != m1 {
		t.Errorf("SideTripMarkets() = %v, want [m1]", got)
	}
	if got, want := p.String(), "NYC-BA-LON [LON-BA-MAN MAN-BA-LON] LON-BA-NYC"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMergedFareMarket(t *testing.T) {
	m := &MergedFareMarket{Segments: []*TravelSeg{
		{Number: 1, Origin: nyc, Destination: chi, Arunk: true},
		seg(2, chi, lon),
	}}
	if m.Origin() != nyc || m.Destination() != lon {
		t.Errorf("Origin/Destination = %v/%v", m.Origin(), m.Destination())
	}
	if !m.StartsWithArunk() {
		t.Error("StartsWithArunk() = false")
	}
	if (&MergedFareMarket{}).StartsWithArunk() {
		t.Error("StartsWithArunk() on a market without segments = true")
	}
	if m.String() != "NYC-**-LON" {
		t.Errorf("String() = %q", m.String())
	}
	if m.First().String() != "1:JFK-//-ORD" {
		t.Errorf("First().String() = %q", m.First().String())
	}
}
