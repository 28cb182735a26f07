package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/farepath/pkg/buildinfo"
	"github.com/matzehuels/farepath/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands
// registered. --verbose switches the logger to debug level before any
// command runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "farepath enumerates pricing unit paths of an itinerary",
		Long: `farepath builds the pricing unit path matrix of an itinerary: every way its
fare market paths can be grouped into one way, round trip, circle trip,
open jaw and round the world pricing units, including side trips.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.BoolVar(&c.infra.noCache, "no-cache", false, "disable the result cache")
	pf.StringVar(&c.infra.redisAddr, "redis", envOr(envRedisAddr, ""), "redis address for the result cache (env "+envRedisAddr+")")
	pf.StringVar(&c.infra.redisPass, "redis-password", "", "redis password")
	pf.IntVar(&c.infra.redisDB, "redis-db", 0, "redis database")
	pf.StringVar(&c.infra.mongoURI, "mongo", envOr(envMongoURI, ""), "mongodb URI for build records (env "+envMongoURI+")")
	pf.StringVar(&c.infra.mongoDB, "mongo-db", defaultMongoDB, "mongodb database")
	pf.BoolVar(&c.infra.noRecords, "no-records", false, "do not record builds")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.diagCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
