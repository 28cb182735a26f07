// Package cli implements the farepath command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/farepath/pkg/cache"
	"github.com/matzehuels/farepath/pkg/pipeline"
	"github.com/matzehuels/farepath/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	appName = "farepath"

	// Environment fallbacks for the infrastructure flags.
	envRedisAddr = "FAREPATH_REDIS_ADDR"
	envMongoURI  = "FAREPATH_MONGO_URI"

	defaultMongoDB = "farepath"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose bool
	infra   infraOpts
}

// infraOpts selects the cache and record backends.
type infraOpts struct {
	noCache    bool
	redisAddr  string
	redisPass  string
	redisDB    int
	mongoURI   string
	mongoDB    string
	noRecords  bool
	storageDir string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the backends chosen by the
// persistent flags. The caller closes it.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	st, err := c.newStore(ctx)
	if err != nil {
		ch.Close()
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, st, c.Logger), nil
}

// newCache selects the cache backend from the infrastructure flags:
// none with --no-cache, Redis when an address is set, else the file cache.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch {
	case c.infra.noCache:
		return cache.NewNullCache(), nil
	case c.infra.redisAddr != "":
		c.Logger.Debug("using redis cache", "addr", c.infra.redisAddr)
		return cache.NewRedisCache(ctx, c.infra.redisAddr, c.infra.redisPass, c.infra.redisDB)
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore returns nil when records are disabled.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	switch {
	case c.infra.noRecords:
		return nil, nil
	case c.infra.mongoURI != "":
		c.Logger.Debug("using mongo build records", "database", c.infra.mongoDB)
		return store.NewMongoStore(ctx, c.infra.mongoURI, c.infra.mongoDB)
	}
	dir := c.infra.storageDir
	if dir == "" {
		var err error
		if dir, err = store.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return store.NewFileStore(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// engineFlags are the engine overrides shared by build, diag, render and
// browse.
type engineFlags struct {
	workers    int
	maxPUPaths int
	onlyOW     bool
	refresh    bool
}

// register adds the engine override flags to cmd.
func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel fare market path builders (default from scenario)")
	cmd.Flags().IntVar(&f.maxPUPaths, "max-pu-paths", 0, "pu path budget (default from scenario)")
	cmd.Flags().BoolVar(&f.onlyOW, "only-ow", false, "build one way units only")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// apply copies the engine overrides into opts.
func (f *engineFlags) apply(opts *pipeline.Options) {
	opts.Workers = f.workers
	opts.MaxPUPaths = f.maxPUPaths
	opts.OnlyOWFares = f.onlyOW
	opts.Refresh = f.refresh
}

// artifactName returns the output file name of one format.
func artifactName(scenarioPath, format string) string {
	base := strings.TrimSuffix(filepath.Base(scenarioPath), filepath.Ext(scenarioPath))
	ext := format
	if format == pipeline.FormatText {
		ext = "txt"
	}
	return base + "." + ext
}

// envOr returns the environment value of key when set, else def.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
