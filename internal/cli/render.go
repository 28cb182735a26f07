package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/pipeline"
)

// graphFormats are the formats the render command accepts.
var graphFormats = map[string]bool{
	pipeline.FormatDOT: true,
	pipeline.FormatSVG: true,
	pipeline.FormatPNG: true,
}

type renderOpts struct {
	output   string
	format   string
	detailed bool
	maxPaths int
	engine   engineFlags
}

// renderCommand draws the matrix as a graph: one node per pu path and per
// unit, linked to the fare markets they price.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render <scenario.toml>",
		Short: "Render the pu path matrix of a scenario as a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateGraphFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <scenario>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show unit flags in node labels")
	cmd.Flags().IntVar(&opts.maxPaths, "max-paths", 0, "draw at most this many pu paths")
	opts.engine.register(cmd)

	return cmd
}

// validateGraphFormat accepts the graph formats only; text and json
// belong to diag and build.
func validateGraphFormat(format string) error {
	if !graphFormats[format] {
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "invalid graph format %q (must be svg, png or dot)", format)
	}
	return nil
}

// runRender builds the matrix and writes one graph to a file or stdout.
func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	prog := newProgress(loggerFromContext(ctx))

	popts := pipeline.Options{
		ScenarioPath: path,
		Formats:      []string{opts.format},
		Detailed:     opts.detailed,
		MaxPaths:     opts.maxPaths,
		Logger:       loggerFromContext(ctx),
	}
	opts.engine.apply(&popts)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	data := res.Artifacts[opts.format]

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	out := opts.output
	if out == "" {
		out = artifactName(path, opts.format)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	prog.done(fmt.Sprintf("Rendered %d pu paths", res.Summary.PUPaths))
	printFile(out)
	return nil
}
