package pricing

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/geo"
	"github.com/matzehuels/farepath/pkg/itin"
	"github.com/matzehuels/farepath/pkg/refdata"
)

// RefData is the reference data a matrix consults besides mileage.
// *refdata.Tables implements it.
type RefData interface {
	CarrierPreference(carrier string) refdata.CarrierPreference
	CircleTripProvision(city1, city2 string) bool
	HasSamePoints() bool
	SameDisplayLoc(airport1, city1, airport2, city2 string) bool
}

// Option configures a Matrix.
type Option func(*Matrix)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(m *Matrix) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithOracle sets the mileage oracle. By default the reference data is
// used when it implements geo.Oracle, and great-circle distance otherwise.
// Either way lookups are memoized.
func WithOracle(o geo.Oracle) Option {
	return func(m *Matrix) {
		if o != nil {
			m.oracle = o
		}
	}
}

// Matrix builds and holds the pricing unit paths of one itinerary.
// A Matrix is not safe for concurrent BuildAll calls.
type Matrix struct {
	cfg    Config
	itin   *itin.Itin
	ref    RefData
	oracle geo.Oracle
	logger *log.Logger

	boundary          Boundary
	withinScandinavia bool
	hasSideTrip       bool

	pathCount  int
	maxPerPath int

	arena *arena
	paths []*PUPath
	stats Stats
}

// Stats summarizes the last build.
type Stats struct {
	InputPaths int           `json:"input_paths"`
	BuiltPaths int           `json:"built_paths"`
	Truncated  bool          `json:"truncated"`
	PUPaths    int           `json:"pu_paths"`
	UniquePUs  int           `json:"unique_pus"`
	Duration   time.Duration `json:"duration"`
}

// New validates cfg and returns an empty matrix for it.
func New(it *itin.Itin, ref RefData, cfg Config, opts ...Option) (*Matrix, error) {
	if it == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "itinerary is required")
	}
	if ref == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reference data is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()

	m := &Matrix{
		cfg:    cfg,
		itin:   it,
		ref:    ref,
		logger: log.Default(),
		arena:  newArena(),
	}
	if o, ok := ref.(geo.Oracle); ok {
		m.oracle = o
	} else {
		m.oracle = geo.GreatCircleOracle{}
	}
	for _, opt := range opts {
		opt(m)
	}
	if _, ok := m.oracle.(*geo.MemoOracle); !ok {
		memo, err := geo.NewMemoOracle(m.oracle, geo.DefaultMemoSize)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "mileage memo")
		}
		m.oracle = memo
	}
	return m, nil
}

// Config returns the effective configuration.
func (m *Matrix) Config() Config { return m.cfg }

// Itin returns the itinerary being priced.
func (m *Matrix) Itin() *itin.Itin { return m.itin }

// Paths returns the built pricing unit paths.
func (m *Matrix) Paths() []*PUPath { return m.paths }

// PUs returns every distinct pricing unit in arena order.
func (m *Matrix) PUs() []*PU { return m.arena.pus }

// Boundary returns the IATA boundary of the itinerary.
func (m *Matrix) Boundary() Boundary { return m.boundary }

// WithinScandinavia reports whether all travel is inside Scandinavia.
func (m *Matrix) WithinScandinavia() bool { return m.withinScandinavia }

// HasSideTrip reports whether any built path links side trips.
func (m *Matrix) HasSideTrip() bool { return m.hasSideTrip }

// MaxPUPathPerPath is the per fare market path budget of the last build.
func (m *Matrix) MaxPUPathPerPath() int { return m.maxPerPath }

// Stats returns the summary of the last build.
func (m *Matrix) Stats() Stats { return m.stats }

// BuildAll builds the pricing unit paths of every fare market path and
// registers each distinct pricing unit once per bucket.
//
// It returns false without error when paths is empty. A path that yields
// no pricing unit path contributes nothing and is not an error.
// Cancellation of ctx fails the whole build with code ABORTED.
func (m *Matrix) BuildAll(ctx context.Context, paths []*itin.FareMarketPath, buckets []*Bucket) (bool, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return false, errors.Wrap(errors.ErrCodeAborted, err, "build pu paths")
	}
	if len(paths) == 0 {
		return false, nil
	}

	m.reset()
	m.stats.InputPaths = len(paths)
	paths = LimitFareMarketPaths(paths, m.cfg.MaxPUPaths)
	m.stats.BuiltPaths = len(paths)
	m.stats.Truncated = len(paths) < m.stats.InputPaths

	m.pathCount = len(paths)
	m.maxPerPath = int(math.Ceil(float64(m.cfg.MaxPUPaths) / float64(m.pathCount)))
	m.logger.Debug("building pu paths", "paths", m.pathCount, "max_per_path", m.maxPerPath)

	m.determineItinTravelBoundary()

	results, err := m.runTasks(ctx, paths)
	if err != nil {
		return false, err
	}
	for _, r := range results {
		m.paths = append(m.paths, r...)
	}

	for _, p := range m.paths {
		m.updateBuckets(p, buckets)
		m.createMainTripSideTripLink(p)
		p.setTotalPU()
		p.countTotalFC()
		p.ItinWithinScandinavia = m.withinScandinavia
	}

	ojs := m.FindUniqueInternationalSameNationOJ()
	m.logger.Debug("unique international same nation open jaws", "count", len(ojs))
	for _, oj := range ojs {
		if err := ctx.Err(); err != nil {
			return false, errors.Wrap(errors.ErrCodeAborted, err, "mark broken open jaws")
		}
		m.markIntlOWfromBrokenOJ(oj)
	}

	if m.cfg.TestMode {
		sortPaths(m.paths)
	}

	m.stats.PUPaths = len(m.paths)
	m.stats.UniquePUs = len(m.arena.pus)
	m.stats.Duration = time.Since(start)
	m.logger.Debug("built pu path matrix",
		"pu_paths", m.stats.PUPaths,
		"unique_pus", m.stats.UniquePUs,
		"duration", m.stats.Duration)
	return true, nil
}

func (m *Matrix) reset() {
	m.paths = nil
	m.arena = newArena()
	m.hasSideTrip = false
	m.withinScandinavia = false
	m.stats = Stats{}
}

func (m *Matrix) carrierPref(cxr string) refdata.CarrierPreference {
	if !m.cfg.CarrierPreferences {
		return refdata.CarrierPreference{Carrier: cxr}
	}
	return m.ref.CarrierPreference(cxr)
}
