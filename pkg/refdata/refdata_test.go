package refdata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/geo"
)

const sample = `
[[location]]
code = "LHR"
city = "LON"
nation = "GB"
area = "2"
subarea = "21"
zones = ["210"]
lat = 51.47
lon = -0.4543

[[location]]
code = "CDG"
city = "PAR"
nation = "FR"
area = "2"
subarea = "21"
zones = ["210"]
lat = 49.0097
lon = 2.5479

[[location]]
code = "BSL"
nation = "CH"
area = "2"
subarea = "21"

[[mileage]]
from = "LON"
to = "PAR"
miles = 214

[[carrier]]
carrier = "BA"
special_double_oj_europe = true
toj_between_areas_shorter_fc = true

[[circle_trip_provision]]
market1 = "BSL"
market2 = "MLH"

[[same_point]]
loc1 = "LHR"
loc2 = "LGW"
`

func mustParse(t *testing.T, s string) *Tables {
	t.Helper()
	tbl, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return tbl
}

func TestParse(t *testing.T) {
	tbl := mustParse(t, sample)
	if len(tbl.Locations) != 3 {
		t.Errorf("len(Locations) = %d, want 3", len(tbl.Locations))
	}
	lhr, err := tbl.Loc("LHR")
	if err != nil {
		t.Fatalf("Loc(LHR) error: %v", err)
	}
	if lhr.CityCode() != "LON" || !lhr.InZone(geo.ZoneEurope) {
		t.Errorf("Loc(LHR) = %+v", lhr)
	}
	if _, err := tbl.Loc("XXX"); !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("Loc(XXX) error = %v, want ErrUnknownLocation", err)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", "[[location]\ncode ="},
		{"bad code", "[[location]]\ncode = \"lhr\"\nnation = \"GB\"\narea = \"2\""},
		{"bad area", "[[location]]\ncode = \"LHR\"\nnation = \"GB\"\narea = \"4\""},
		{"missing nation", "[[location]]\ncode = \"LHR\"\narea = \"2\""},
		{"negative miles", "[[mileage]]\nfrom = \"A\"\nto = \"B\"\nmiles = -1"},
		{"bad carrier", "[[carrier]]\ncarrier = \"b\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !ferrors.Is(err, ferrors.ErrCodeInvalidRefData) {
				t.Errorf("Parse() error = %v, want INVALID_REFDATA", err)
			}
		})
	}
}

func TestMileage(t *testing.T) {
	tbl := mustParse(t, sample)
	ctx := context.Background()
	lhr, _ := tbl.Loc("LHR")
	cdg, _ := tbl.Loc("CDG")
	bsl, _ := tbl.Loc("BSL")

	if m, _ := tbl.Mileage(ctx, cdg, lhr); m != 214 {
		t.Errorf("Mileage(CDG, LHR) = %d, want 214 from city row", m)
	}
	if m, _ := tbl.Mileage(ctx, lhr, bsl); m != geo.GreatCircleMiles(lhr, bsl) {
		t.Errorf("Mileage(LHR, BSL) = %d, want great-circle fallback", m)
	}
}

func TestCarrierPreference(t *testing.T) {
	tbl := mustParse(t, sample)
	ba := tbl.CarrierPreference("BA")
	if !ba.ApplySpclDOJEurope || !ba.ApplySingleTOJBetwAreasShorterFC || ba.ApplySingleTOJBetwAreasLongerFC {
		t.Errorf("CarrierPreference(BA) = %+v", ba)
	}
	lh := tbl.CarrierPreference("LH")
	if lh.Carrier != "LH" || lh.ApplySpclDOJEurope {
		t.Errorf("CarrierPreference(LH) = %+v, want empty default", lh)
	}
}

func TestCircleTripProvisionAndSamePoint(t *testing.T) {
	tbl := mustParse(t, sample)
	if !tbl.CircleTripProvision("MLH", "BSL") {
		t.Error("CircleTripProvision(MLH, BSL) = false, want true in either order")
	}
	if tbl.CircleTripProvision("BSL", "ZRH") {
		t.Error("CircleTripProvision(BSL, ZRH) = true, want false")
	}
	if !tbl.HasSamePoints() {
		t.Error("HasSamePoints() = false, want true")
	}
	if !tbl.SameDisplayLoc("LGW", "LON", "LHR", "LON") {
		t.Error("SameDisplayLoc(LGW, LHR) = false, want true")
	}
	if tbl.SameDisplayLoc("CDG", "PAR", "LHR", "LON") {
		t.Error("SameDisplayLoc(CDG, LHR) = true, want false")
	}
}

func TestMergeOverrides(t *testing.T) {
	tbl := mustParse(t, sample)
	extra := mustParse(t, "[[mileage]]\nfrom = \"PAR\"\nto = \"LON\"\nmiles = 220\n")
	tbl.Merge(extra)
	if err := tbl.Index(); err != nil {
		t.Fatalf("Index() error: %v", err)
	}
	lhr, _ := tbl.Loc("LHR")
	cdg, _ := tbl.Loc("CDG")
	if m, _ := tbl.Mileage(context.Background(), lhr, cdg); m != 220 {
		t.Errorf("Mileage after merge = %d, want 220", m)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load() error: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing) error = nil")
	}
}
