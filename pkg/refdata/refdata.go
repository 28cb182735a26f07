// Package refdata holds the reference tables that fare construction
// consults: locations, published mileage, carrier preferences, circle trip
// provisions and fare calc display same points.
//
// Tables are written in TOML:
//
//	[[location]]
//	code = "LHR"
//	city = "LON"
//	nation = "GB"
//	area = "2"
//	subarea = "21"
//	zones = ["210"]
//
//	[[mileage]]
//	from = "LON"
//	to = "PAR"
//	miles = 214
//
//	[[carrier]]
//	carrier = "BA"
//	special_double_oj_europe = true
//
// A loaded [Tables] is read only and safe for concurrent use.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/geo"
)

// ErrUnknownLocation is returned when a location code is not in the tables.
var ErrUnknownLocation = errors.New("unknown location")

// CarrierPreference carries the open-jaw opt-ins of a governing carrier.
type CarrierPreference struct {
	Carrier string `toml:"carrier" json:"carrier"`

	// ApplySpclDOJEurope allows the special European double open jaw.
	ApplySpclDOJEurope bool `toml:"special_double_oj_europe" json:"special_double_oj_europe"`

	// ApplySingleTOJBetwAreasShorterFC allows a turnaround open jaw between
	// two areas when the surface is not longer than the shorter component.
	ApplySingleTOJBetwAreasShorterFC bool `toml:"toj_between_areas_shorter_fc" json:"toj_between_areas_shorter_fc"`

	// ApplySingleTOJBetwAreasLongerFC allows it up to the longer component.
	ApplySingleTOJBetwAreasLongerFC bool `toml:"toj_between_areas_longer_fc" json:"toj_between_areas_longer_fc"`
}

// Mileage is a published ticketed point mileage between two points.
// Points are location or city codes; rows apply in both directions.
type Mileage struct {
	From  string `toml:"from" json:"from"`
	To    string `toml:"to" json:"to"`
	Miles int    `toml:"miles" json:"miles"`
}

// CircleTripProvision lets a surface sector between two cities keep a
// circle trip contiguous.
type CircleTripProvision struct {
	Market1 string `toml:"market1" json:"market1"`
	Market2 string `toml:"market2" json:"market2"`
}

// SamePoint declares two airports or cities as one display location for
// fare calculation.
type SamePoint struct {
	Loc1 string `toml:"loc1" json:"loc1"`
	Loc2 string `toml:"loc2" json:"loc2"`
}

type codePair [2]string

func pair(a, b string) codePair {
	if b < a {
		a, b = b, a
	}
	return codePair{a, b}
}

// Tables is the decoded reference data plus lookup indexes.
type Tables struct {
	Locations            []*geo.Loc            `toml:"location"`
	Mileages             []Mileage             `toml:"mileage"`
	Carriers             []CarrierPreference   `toml:"carrier"`
	CircleTripProvisions []CircleTripProvision `toml:"circle_trip_provision"`
	SamePoints           []SamePoint           `toml:"same_point"`

	locs     map[string]*geo.Loc
	miles    map[codePair]int
	carriers map[string]CarrierPreference
	ctp      map[codePair]bool
	same     map[codePair]bool
}

// Parse decodes TOML reference data and builds its indexes.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if _, err := toml.Decode(string(data), &t); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidRefData, err, "decode reference data")
	}
	if err := t.Index(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Load reads and parses a TOML reference data file.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	return Parse(data)
}

// Merge appends the rows of other to t. Index must be called afterwards.
func (t *Tables) Merge(other *Tables) {
	if other == nil {
		return
	}
	t.Locations = append(t.Locations, other.Locations...)
	t.Mileages = append(t.Mileages, other.Mileages...)
	t.Carriers = append(t.Carriers, other.Carriers...)
	t.CircleTripProvisions = append(t.CircleTripProvisions, other.CircleTripProvisions...)
	t.SamePoints = append(t.SamePoints, other.SamePoints...)
}

// Index validates the rows and (re)builds the lookup maps.
// Later rows override earlier rows with the same key.
func (t *Tables) Index() error {
	t.locs = make(map[string]*geo.Loc, len(t.Locations))
	for _, l := range t.Locations {
		if err := ferrors.ValidateLocCode(l.Code); err != nil {
			return err
		}
		switch l.Area {
		case geo.Area1, geo.Area2, geo.Area3:
		default:
			return ferrors.New(ferrors.ErrCodeInvalidRefData, "location %s: invalid IATA area %q", l.Code, l.Area)
		}
		if l.Nation == "" {
			return ferrors.New(ferrors.ErrCodeInvalidRefData, "location %s: missing nation", l.Code)
		}
		t.locs[l.Code] = l
	}

	t.miles = make(map[codePair]int, len(t.Mileages))
	for _, m := range t.Mileages {
		if m.Miles < 0 {
			return ferrors.New(ferrors.ErrCodeInvalidRefData, "mileage %s-%s: negative miles", m.From, m.To)
		}
		t.miles[pair(m.From, m.To)] = m.Miles
	}

	t.carriers = make(map[string]CarrierPreference, len(t.Carriers))
	for _, c := range t.Carriers {
		if err := ferrors.ValidateCarrierCode(c.Carrier); err != nil {
			return err
		}
		t.carriers[c.Carrier] = c
	}

	t.ctp = make(map[codePair]bool, len(t.CircleTripProvisions))
	for _, p := range t.CircleTripProvisions {
		t.ctp[pair(p.Market1, p.Market2)] = true
	}

	t.same = make(map[codePair]bool, len(t.SamePoints))
	for _, p := range t.SamePoints {
		t.same[pair(p.Loc1, p.Loc2)] = true
	}
	return nil
}

// Loc returns the location with the given code.
func (t *Tables) Loc(code string) (*geo.Loc, error) {
	if l, ok := t.locs[code]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, code)
}

// Mileage implements geo.Oracle. Published mileage is looked up by airport
// codes, then by city codes; otherwise the great-circle distance is used.
func (t *Tables) Mileage(_ context.Context, from, to *geo.Loc) (int, error) {
	if m, ok := t.miles[pair(from.Code, to.Code)]; ok {
		return m, nil
	}
	if m, ok := t.miles[pair(from.CityCode(), to.CityCode())]; ok {
		return m, nil
	}
	return geo.GreatCircleMiles(from, to), nil
}

// CarrierPreference returns the preference record of a carrier. Unknown
// carriers get a record with every opt-in disabled.
func (t *Tables) CarrierPreference(carrier string) CarrierPreference {
	if c, ok := t.carriers[carrier]; ok {
		return c
	}
	return CarrierPreference{Carrier: carrier}
}

// CircleTripProvision reports whether a surface sector between the two
// cities keeps a circle trip contiguous.
func (t *Tables) CircleTripProvision(city1, city2 string) bool {
	return t.ctp[pair(city1, city2)]
}

// HasSamePoints reports whether any display same points are configured.
func (t *Tables) HasSamePoints() bool {
	return len(t.same) > 0
}

// SameDisplayLoc reports whether two points display as one location. Each
// point is given by its airport and city code; any pairing may match.
func (t *Tables) SameDisplayLoc(airport1, city1, airport2, city2 string) bool {
	for _, a := range []string{airport1, city1} {
		for _, b := range []string{airport2, city2} {
			if t.same[pair(a, b)] {
				return true
			}
		}
	}
	return false
}

var _ geo.Oracle = (*Tables)(nil)
