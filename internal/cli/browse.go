package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/farepath/pkg/pipeline"
)

// browseCommand builds a matrix and opens the interactive pu path browser.
// It always builds, since the browser needs the matrix itself.
func (c *CLI) browseCommand() *cobra.Command {
	var engine engineFlags

	cmd := &cobra.Command{
		Use:   "browse <scenario.toml>",
		Short: "Browse the pu paths of a scenario interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := pipeline.Options{ScenarioPath: args[0], Logger: loggerFromContext(ctx)}
			engine.apply(&opts)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, nil, c.Logger)
			sc, hash, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}
			m, summary, err := runner.Build(ctx, sc, opts.EngineConfig(sc.Config), hash)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("%s · %s · %d pu paths", displayName(summary.Name, args[0]), summary.Boundary, summary.PUPaths)
			_, err = tea.NewProgram(NewBrowserModel(title, m), tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}
	engine.register(cmd)

	return cmd
}
