package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/farepath/pkg/cache"
	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/observability"
	"github.com/matzehuels/farepath/pkg/pricing"
	"github.com/matzehuels/farepath/pkg/scenario"
	"github.com/matzehuels/farepath/pkg/store"
)

// Runner executes the pipeline with caching and build records.
//
// The Runner keeps no per-run state. Multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses DefaultKeyer, a nil cache
// disables caching and a nil store skips build records.
func NewRunner(c cache.Cache, keyer cache.Keyer, s store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  s,
		Logger: logger,
	}
}

// Execute runs load → build → render. Cached artifacts are reused unless
// opts.Refresh is set; the matrix itself is only built on a miss.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()

	loadStart := time.Now()
	sc, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		ScenarioHash: hash,
		Scenario:     sc,
		Artifacts:    make(map[string][]byte),
	}
	result.Stats.LoadTime = time.Since(loadStart)

	cfg := opts.EngineConfig(sc.Config)
	matrixKey := r.Keyer.MatrixKey(hash, MatrixKeyOpts(cfg))

	if !opts.Refresh {
		if summary, artifacts, ok := r.lookup(ctx, matrixKey, opts); ok {
			result.Summary = summary
			result.Artifacts = artifacts
			result.CacheInfo.Hit = true
			r.Logger.Info("served from cache", "scenario", summary.Name, "formats", opts.Formats)
			r.record(ctx, result, opts, time.Since(start))
			return result, nil
		}
	}

	buildStart := time.Now()
	m, summary, err := r.Build(ctx, sc, cfg, hash)
	if err != nil {
		return nil, err
	}
	result.Matrix = m
	result.Summary = summary
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Info("built pu path matrix",
		"pu_paths", summary.PUPaths,
		"unique_pus", summary.UniquePUs,
		"truncated", summary.Truncated,
		"duration", result.Stats.BuildTime)

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)

	r.store(ctx, matrixKey, summary, artifacts, opts)
	r.record(ctx, result, opts, time.Since(start))
	return result, nil
}

// Load reads and resolves the scenario and returns its content hash. The
// hash covers the scenario text and the resolved reference tables, so a
// change to a referenced refdata file changes the hash too.
func (r *Runner) Load(ctx context.Context, opts Options) (*scenario.Scenario, string, error) {
	source := opts.Source()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	sc, hash, err := load(opts)
	paths := 0
	if sc != nil {
		paths = len(sc.Paths)
	}
	hooks.OnLoadComplete(ctx, source, paths, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}
	r.Logger.Debug("loaded scenario", "source", source, "name", sc.Name, "paths", paths, "hash", hash[:12])
	return sc, hash, nil
}

func load(opts Options) (*scenario.Scenario, string, error) {
	data, dir := opts.Scenario, ""
	if len(data) == 0 {
		var err error
		if data, err = os.ReadFile(opts.ScenarioPath); err != nil {
			return nil, "", ferrors.Wrap(ferrors.ErrCodeNotFound, err, "read scenario")
		}
		dir = filepath.Dir(opts.ScenarioPath)
	}
	sc, err := scenario.Parse(data, dir)
	if err != nil {
		return nil, "", err
	}
	tables, err := json.Marshal(sc.Tables)
	if err != nil {
		return nil, "", ferrors.Wrap(ferrors.ErrCodeInternal, err, "hash reference data")
	}
	return sc, cache.Hash(append(append([]byte{}, data...), tables...)), nil
}

// Build constructs the matrix for sc under cfg.
func (r *Runner) Build(ctx context.Context, sc *scenario.Scenario, cfg pricing.Config, hash string) (*pricing.Matrix, Summary, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, hash, len(sc.Paths))
	start := time.Now()

	m, err := pricing.New(sc.Itin, sc.Tables, cfg, pricing.WithLogger(r.Logger))
	if err != nil {
		hooks.OnBuildComplete(ctx, hash, observability.BuildStats{}, time.Since(start), err)
		return nil, Summary{}, err
	}
	buckets := sc.Buckets()
	if _, err := m.BuildAll(ctx, sc.Paths, buckets); err != nil {
		hooks.OnBuildComplete(ctx, hash, observability.BuildStats{}, time.Since(start), err)
		return nil, Summary{}, err
	}

	stats := m.Stats()
	hooks.OnBuildComplete(ctx, hash, observability.BuildStats{
		InputPaths: stats.InputPaths,
		PUPaths:    stats.PUPaths,
		UniquePUs:  stats.UniquePUs,
		Truncated:  stats.Truncated,
	}, time.Since(start), nil)

	summary := Summary{
		Name:              sc.Name,
		GeoTravelType:     sc.Itin.GeoTravelType,
		Boundary:          m.Boundary(),
		WithinScandinavia: m.WithinScandinavia(),
		HasSideTrip:       m.HasSideTrip(),
		Stats:             stats,
	}
	for _, p := range sc.Pax {
		summary.Pax = append(summary.Pax, p.Code)
	}
	for _, b := range buckets {
		summary.Factories += len(b.Factories)
	}
	return m, summary, nil
}

// Render produces every requested format from m.
func (r *Runner) Render(ctx context.Context, m *pricing.Matrix, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, m, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// Close releases the cache and the store.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// =============================================================================
// Cache
// =============================================================================

// lookup succeeds only when the summary and every requested artifact are
// cached.
func (r *Runner) lookup(ctx context.Context, matrixKey string, opts Options) (Summary, map[string][]byte, bool) {
	hooks := observability.Cache()
	var summary Summary
	data, hit, err := r.Cache.Get(ctx, matrixKey)
	if err != nil || !hit || json.Unmarshal(data, &summary) != nil {
		hooks.OnCacheMiss(ctx, "matrix")
		return Summary{}, nil, false
	}
	hooks.OnCacheHit(ctx, "matrix")

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(matrixKey, opts.ArtifactKeyOpts(format)))
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return Summary{}, nil, false
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return summary, artifacts, true
}

// store writes are best effort; a failing cache never fails a build.
func (r *Runner) store(ctx context.Context, matrixKey string, summary Summary, artifacts map[string][]byte, opts Options) {
	hooks := observability.Cache()
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, matrixKey, data, cache.TTLMatrix); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	hooks.OnCacheSet(ctx, "matrix", len(data))
	for format, data := range artifacts {
		if err := r.Cache.Set(ctx, r.Keyer.ArtifactKey(matrixKey, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			return
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
}

// record saves a build record and sets result.RunID. Store failures are
// logged, not returned.
func (r *Runner) record(ctx context.Context, result *Result, opts Options, d time.Duration) {
	if r.Store == nil {
		return
	}
	rec := store.NewRecord(result.ScenarioHash)
	rec.ScenarioName = result.Summary.Name
	rec.Duration = d
	rec.CacheHit = result.CacheInfo.Hit
	rec.InputPaths = result.Summary.InputPaths
	rec.BuiltPaths = result.Summary.BuiltPaths
	rec.Truncated = result.Summary.Truncated
	rec.PUPaths = result.Summary.PUPaths
	rec.UniquePUs = result.Summary.UniquePUs
	rec.Formats = opts.Formats
	if err := r.Store.Save(ctx, rec); err != nil {
		r.Logger.Warn("save build record failed", "error", err)
		return
	}
	result.RunID = rec.ID
}
