package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/farepath/internal/server"
	"github.com/matzehuels/farepath/pkg/observability"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the build API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.SetHTTPHooks(observability.NewLogHooks(c.Logger.WithPrefix("hooks")))

			srv := server.New(server.Config{
				Addr:         addr,
				Runner:       runner,
				Logger:       c.Logger,
				MaxBody:      maxBody,
				BuildTimeout: timeout,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum scenario size in bytes")
	cmd.Flags().DurationVar(&timeout, "build-timeout", time.Minute, "timeout of one build request (0 disables)")

	return cmd
}
