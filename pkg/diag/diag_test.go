package diag_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/farepath/pkg/diag"
	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
	"github.com/matzehuels/farepath/pkg/pricing"
	"github.com/matzehuels/farepath/pkg/refdata"
)

func builtMatrix(t *testing.T) *pricing.Matrix {
	t.Helper()
	lon := &geo.Loc{Code: "LON", Nation: "GB", Area: "2", SubArea: "21", Zones: []string{"210"}, Lat: 51.51, Lon: -0.13}
	par := &geo.Loc{Code: "PAR", Nation: "FR", Area: "2", SubArea: "21", Zones: []string{"210"}, Lat: 48.86, Lon: 2.35}
	tables := &refdata.Tables{Locations: []*geo.Loc{lon, par}}
	if err := tables.Index(); err != nil {
		t.Fatalf("Index error: %v", err)
	}

	out := &itin.TravelSeg{Number: 1, Origin: lon, Destination: par, Carrier: "BA"}
	in := &itin.TravelSeg{Number: 2, Origin: par, Destination: lon, Carrier: "BA"}
	it := &itin.Itin{Segments: []*itin.TravelSeg{out, in}, GeoTravelType: itin.International, Legs: 2}
	market := func(seg *itin.TravelSeg) *itin.MergedFareMarket {
		return &itin.MergedFareMarket{
			ID:                seg.String(),
			Segments:          []*itin.TravelSeg{seg},
			GeoTravelType:     itin.International,
			GoverningCarriers: []string{"BA"},
		}
	}
	fmp := &itin.FareMarketPath{Markets: []*itin.MergedFareMarket{market(out), market(in)}}

	cfg := pricing.DefaultConfig()
	cfg.TestMode = true
	cfg.Workers = 1
	m, err := pricing.New(it, tables, cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if _, err := m.BuildAll(context.Background(), []*itin.FareMarketPath{fmp}, nil); err != nil {
		t.Fatalf("BuildAll error: %v", err)
	}
	return m
}

func TestWrite(t *testing.T) {
	m := builtMatrix(t)

	var buf bytes.Buffer
	if err := diag.Write(&buf, m, diag.Options{Flags: true}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"PU PATH MATRIX",
		"ITIN INTL ONE_SUB_IATA",
		"LON-BA-PAR(O) PAR-BA-LON(I)",
		"COMPLETE_JOURNEY",
		"ABA_OW",
		"PU PATHS 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteLimit(t *testing.T) {
	m := builtMatrix(t)

	var buf bytes.Buffer
	if err := diag.Write(&buf, m, diag.Options{Limit: 1}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if !strings.Contains(buf.String(), "... 1 more pu paths") {
		t.Errorf("limited output should mention the skipped path:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "COMPLETE_JOURNEY") {
		t.Error("flags should only print with Options.Flags")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteError(t *testing.T) {
	if err := diag.Write(failWriter{}, builtMatrix(t), diag.Options{}); err == nil {
		t.Error("Write should report the writer error")
	}
}
