package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/farepath/pkg/pipeline"
)

// diagCommand prints the text dump of a matrix to stdout.
func (c *CLI) diagCommand() *cobra.Command {
	var (
		flags  bool
		limit  int
		engine engineFlags
	)

	cmd := &cobra.Command{
		Use:   "diag <scenario.toml>",
		Short: "Print the pu path matrix of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := pipeline.Options{
				ScenarioPath: args[0],
				Formats:      []string{pipeline.FormatText},
				Detailed:     flags,
				MaxPaths:     limit,
				Logger:       loggerFromContext(ctx),
			}
			engine.apply(&opts)

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(res.Artifacts[pipeline.FormatText])
			return err
		},
	}

	cmd.Flags().BoolVar(&flags, "flags", false, "print unit and path flags")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many pu paths")
	engine.register(cmd)

	return cmd
}
