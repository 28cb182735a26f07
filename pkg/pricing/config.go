package pricing

import (
	"runtime"

	"github.com/matzehuels/farepath/pkg/errors"
)

// =============================================================================
// Limits
// =============================================================================

const (
	// DefaultMaxPUPaths caps the fare market paths built per itinerary and
	// sizes the per-path budget.
	DefaultMaxPUPaths = 5000

	// MaxOJComponents is the largest open jaw tried.
	MaxOJComponents = 9

	// ReducedOJComponents replaces MaxOJComponents once an itinerary has
	// more than PathCountThreshold fare market paths.
	ReducedOJComponents = 3
	PathCountThreshold  = 1000

	// minReducedFCCap is the smallest component cap under reduced
	// constructions; itineraries with more legs use the leg count.
	minReducedFCCap = 4
)

// =============================================================================
// Config
// =============================================================================

// Config holds the construction toggles of a matrix.
type Config struct {
	// OnlyOWFares restricts construction to one way units.
	OnlyOWFares bool `toml:"only_ow_fares" json:"only_ow_fares,omitempty"`

	// ReducedConstructions caps fare components per path and rejects open
	// jaws over 2 and circle trips over 3 components.
	ReducedConstructions bool `toml:"reduced_constructions" json:"reduced_constructions,omitempty"`

	// SpecialOpenJaw allows origin open jaws across IATA areas, subject to
	// mileage, and marks them special.
	SpecialOpenJaw bool `toml:"special_open_jaw" json:"special_open_jaw,omitempty"`

	// DiffCountryNMLOpenJaw allows open jaws across IATA areas as normal
	// open jaws with a carrier mileage check. It takes precedence over
	// SpecialOpenJaw for that decision.
	DiffCountryNMLOpenJaw bool `toml:"diff_country_nml_open_jaw" json:"diff_country_nml_open_jaw,omitempty"`

	// CarrierPreferences consults governing carrier preference records.
	// When off every carrier is treated as having no opt-ins.
	CarrierPreferences bool `toml:"carrier_preferences" json:"carrier_preferences,omitempty"`

	// Workers bounds concurrent path builds. 0 means GOMAXPROCS; 1 builds
	// every path on the caller.
	Workers int `toml:"workers" json:"workers,omitempty"`

	// TestMode sorts the results into a deterministic order.
	TestMode bool `toml:"test_mode" json:"test_mode,omitempty"`

	// MaxPUPaths overrides DefaultMaxPUPaths.
	MaxPUPaths int `toml:"max_pu_paths" json:"max_pu_paths,omitempty"`
}

// DefaultConfig returns the production toggles.
func DefaultConfig() Config {
	return Config{
		SpecialOpenJaw:     true,
		CarrierPreferences: true,
	}
}

// SetDefaults fills zero numeric fields.
func (c *Config) SetDefaults() {
	if c.MaxPUPaths == 0 {
		c.MaxPUPaths = DefaultMaxPUPaths
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate checks the numeric fields.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", c.Workers)
	}
	if c.MaxPUPaths < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max pu paths must not be negative, got %d", c.MaxPUPaths)
	}
	return nil
}
