// Package pipeline runs the load → build → render pipeline shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: parse a TOML scenario into an itinerary, its fare market paths
//     and reference data, and hash the result.
//  2. Build: construct the pricing unit path matrix.
//  3. Render: produce the requested artifacts (text, json, dot, svg, png).
//
// A [Runner] adds caching of rendered artifacts keyed by the scenario hash
// and the engine settings, and records every run in a build record store.
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ScenarioPath: "scenarios/rt.toml",
//	    Formats:      []string{"text", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Artifacts["text"])
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/farepath/pkg/cache"
	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/itin"
	"github.com/matzehuels/farepath/pkg/pricing"
	"github.com/matzehuels/farepath/pkg/scenario"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatText

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "invalid format %q (must be one of: text, json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma separated list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Scenario is the TOML content. When empty ScenarioPath is read.
	Scenario     []byte `json:"-"`
	ScenarioPath string `json:"scenario_path,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Detailed prints unit flags in text output and DOT labels.
	Detailed bool `json:"detailed,omitempty"`
	// MaxPaths limits the pricing unit paths in text and graph output.
	MaxPaths int `json:"max_paths,omitempty"`

	// Engine overrides applied on top of the scenario [config] table.
	Workers     int  `json:"workers,omitempty"`
	MaxPUPaths  int  `json:"max_pu_paths,omitempty"`
	OnlyOWFares bool `json:"only_ow_fares,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options once; later calls are no-ops.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Scenario) == 0 && o.ScenarioPath == "" {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "scenario content or path is required")
	}
	if o.Workers < 0 || o.MaxPUPaths < 0 || o.MaxPaths < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidInput, "workers, max_pu_paths and max_paths must not be negative")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Source names the scenario for logs and records.
func (o *Options) Source() string {
	if len(o.Scenario) == 0 {
		return o.ScenarioPath
	}
	return "inline"
}

// EngineConfig overlays the engine overrides on cfg.
func (o *Options) EngineConfig(cfg pricing.Config) pricing.Config {
	if o.Workers > 0 {
		cfg.Workers = o.Workers
	}
	if o.MaxPUPaths > 0 {
		cfg.MaxPUPaths = o.MaxPUPaths
	}
	if o.OnlyOWFares {
		cfg.OnlyOWFares = true
	}
	return cfg
}

// MatrixKeyOpts returns the cache key options of cfg.
func MatrixKeyOpts(cfg pricing.Config) cache.MatrixKeyOpts {
	cfg.SetDefaults()
	return cache.MatrixKeyOpts{
		OnlyOWFares:           cfg.OnlyOWFares,
		ReducedConstructions:  cfg.ReducedConstructions,
		SpecialOpenJaw:        cfg.SpecialOpenJaw,
		DiffCountryNMLOpenJaw: cfg.DiffCountryNMLOpenJaw,
		CarrierPreferences:    cfg.CarrierPreferences,
		MaxPUPaths:            cfg.MaxPUPaths,
	}
}

// ArtifactKeyOpts returns the cache key options of one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		MaxPaths: o.MaxPaths,
	}
}

// =============================================================================
// Result
// =============================================================================

// Summary describes a built matrix. It is cached with the artifacts so a
// cache hit can report it without rebuilding.
type Summary struct {
	Name              string             `json:"name,omitempty"`
	GeoTravelType     itin.GeoTravelType `json:"geo_travel_type"`
	Boundary          pricing.Boundary   `json:"boundary"`
	WithinScandinavia bool               `json:"within_scandinavia,omitempty"`
	HasSideTrip       bool               `json:"has_side_trip,omitempty"`
	Pax               []string           `json:"pax,omitempty"`
	Factories         int                `json:"factories"`
	pricing.Stats
}

// Result is the output of a run.
type Result struct {
	RunID        string
	ScenarioHash string

	Scenario *scenario.Scenario
	// Matrix is nil when the run was served from cache.
	Matrix *pricing.Matrix

	Summary   Summary
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats times the stages of a run.
type Stats struct {
	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// Total returns the summed stage time.
func (s Stats) Total() time.Duration {
	return s.LoadTime + s.BuildTime + s.RenderTime
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	Hit bool
}

func (r *Result) String() string {
	s := r.Summary
	return fmt.Sprintf("%d pu paths, %d unique pus from %d fare market paths", s.PUPaths, s.UniquePUs, s.InputPaths)
}
