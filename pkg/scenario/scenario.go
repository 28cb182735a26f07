package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/itin"
	"github.com/matzehuels/farepath/pkg/pricing"
	"github.com/matzehuels/farepath/pkg/refdata"
)

// DefaultPax is used when a scenario lists no passenger types.
var DefaultPax = itin.PaxType{Code: "ADT", Number: 1}

// Scenario is a resolved scenario file.
type Scenario struct {
	Name        string
	Description string

	Tables  *refdata.Tables
	Itin    *itin.Itin
	Markets []*itin.MergedFareMarket
	Paths   []*itin.FareMarketPath
	Config  pricing.Config
	Pax     []itin.PaxType

	// LowerBound is copied into every factory.
	LowerBound float64
}

// Buckets returns one empty bucket per passenger type.
func (s *Scenario) Buckets() []*pricing.Bucket {
	out := make([]*pricing.Bucket, len(s.Pax))
	for i, p := range s.Pax {
		out[i] = pricing.NewBucket(p, s.LowerBound)
	}
	return out
}

// Market returns the market with the given id, or nil.
func (s *Scenario) Market(id string) *itin.MergedFareMarket {
	for _, m := range s.Markets {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// =============================================================================
// File format
// =============================================================================

type file struct {
	Name        string         `toml:"name"`
	Description string         `toml:"description"`
	RefData     string         `toml:"refdata"`
	LowerBound  float64        `toml:"lower_bound"`
	Config      pricing.Config `toml:"config"`
	Itin        itinDef        `toml:"itin"`
	Markets     []marketDef    `toml:"market"`
	Paths       []pathDef      `toml:"path"`
	Pax         []itin.PaxType `toml:"pax"`
}

type itinDef struct {
	GeoTravelType    *itin.GeoTravelType `toml:"geo_travel_type"`
	TravelDate       time.Time           `toml:"travel_date"`
	RoundTheWorld    bool                `toml:"round_the_world"`
	RoundTheWorldSFC bool                `toml:"round_the_world_sfc"`
	FurthestPoint    int                 `toml:"furthest_point"`
	Legs             int                 `toml:"legs"`
	Segments         []segmentDef        `toml:"segment"`
}

type segmentDef struct {
	From           string `toml:"from"`
	To             string `toml:"to"`
	Carrier        string `toml:"carrier"`
	Arunk          bool   `toml:"arunk"`
	FareCalcAmount string `toml:"fare_calc_amount"`
}

type marketDef struct {
	ID               string              `toml:"id"`
	Segments         []int               `toml:"segments"`
	GlobalDirection  string              `toml:"global_direction"`
	GeoTravelType    *itin.GeoTravelType `toml:"geo_travel_type"`
	Tag2             itin.Tag2           `toml:"tag2"`
	Carriers         []string            `toml:"carriers"`
	CxrFarePreferred bool                `toml:"cxr_fare_preferred"`
}

type pathDef struct {
	Markets   []string      `toml:"markets"`
	SideTrips []sideTripDef `toml:"side_trip"`
}

type sideTripDef struct {
	From  string     `toml:"from"`
	Paths [][]string `toml:"paths"`
}

// =============================================================================
// Loading
// =============================================================================

// Load reads a scenario file. A refdata reference is resolved relative to
// the file's directory.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes a scenario. dir resolves the refdata reference; when dir
// is empty the scenario must carry its reference data inline.
func Parse(data []byte, dir string) (*Scenario, error) {
	f := file{Config: pricing.DefaultConfig()}
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidScenario, err, "decode scenario")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		if key, ok := unknownKey(undecoded); ok {
			return nil, ferrors.New(ferrors.ErrCodeInvalidScenario, "unknown scenario key %q", key)
		}
	}

	tables, err := loadTables(data, f.RefData, dir)
	if err != nil {
		return nil, err
	}

	s := &Scenario{
		Name:        f.Name,
		Description: f.Description,
		Tables:      tables,
		Config:      f.Config,
		Pax:         f.Pax,
		LowerBound:  f.LowerBound,
	}
	if len(s.Pax) == 0 {
		s.Pax = []itin.PaxType{DefaultPax}
	}
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}

	r := resolver{s: s, marketByID: make(map[string]*itin.MergedFareMarket)}
	if err := r.itin(f.Itin); err != nil {
		return nil, err
	}
	if err := r.markets(f.Markets); err != nil {
		return nil, err
	}
	if err := r.paths(f.Paths); err != nil {
		return nil, err
	}
	return s, nil
}

// unknownKey ignores the reference table keys, which are decoded
// separately by refdata.
func unknownKey(keys []toml.Key) (string, bool) {
	for _, k := range keys {
		switch k[0] {
		case "location", "mileage", "carrier", "circle_trip_provision", "same_point":
			continue
		}
		return k.String(), true
	}
	return "", false
}

func loadTables(data []byte, ref, dir string) (*refdata.Tables, error) {
	inline, err := refdata.Parse(data)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		return inline, nil
	}
	if dir == "" {
		return nil, ferrors.New(ferrors.ErrCodeUnsupported, "scenario references %q but was not loaded from a file", ref)
	}
	if err := ferrors.ValidatePath(ref); err != nil {
		return nil, err
	}

	tables, err := refdata.Load(filepath.Join(dir, ref))
	if err != nil {
		return nil, err
	}
	tables.Merge(inline)
	if err := tables.Index(); err != nil {
		return nil, err
	}
	return tables, nil
}
