package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/farepath/pkg/pipeline"
)

type buildOpts struct {
	output   string
	formats  string
	detailed bool
	maxPaths int
	engine   engineFlags
}

// buildCommand builds the matrix of a scenario and writes the artifacts.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{formats: pipeline.FormatText}

	cmd := &cobra.Command{
		Use:   "build <scenario.toml>",
		Short: "Build the pricing unit path matrix of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output format(s): text, json, dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include unit flags")
	cmd.Flags().IntVar(&opts.maxPaths, "max-paths", 0, "limit pu paths in text and graph output")
	opts.engine.register(cmd)

	return cmd
}

// runBuild executes the pipeline for one scenario, writes each artifact
// into opts.output and prints a summary.
func (c *CLI) runBuild(cmd *cobra.Command, path string, opts buildOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts := pipeline.Options{
		ScenarioPath: path,
		Formats:      pipeline.ParseFormats(opts.formats),
		Detailed:     opts.detailed,
		MaxPaths:     opts.maxPaths,
		Logger:       logger,
	}
	opts.engine.apply(&popts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, "Building pu paths...")
	spin.Start()
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		spin.StopWithError("Build failed")
		return err
	}
	spin.Stop()

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	var files []string
	for _, format := range popts.Formats {
		file := filepath.Join(opts.output, artifactName(path, format))
		if err := os.WriteFile(file, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		files = append(files, file)
	}

	printSuccess("Built %s", displayName(res.Summary.Name, path))
	printStats(res.Summary.PUPaths, res.Summary.UniquePUs, res.CacheInfo.Hit)
	printSummary(res.Summary, res.Stats.Total())
	if res.Summary.Truncated {
		printWarning("pu path budget reached after %d of %d fare market paths", res.Summary.BuiltPaths, res.Summary.InputPaths)
	}
	for _, f := range files {
		printFile(f)
	}
	if res.RunID != "" {
		printNewline()
		printNextStep("Inspect the run", appName+" runs show "+res.RunID)
	}
	return nil
}

// printSummary prints the scenario classification and matrix counts.
func printSummary(s pipeline.Summary, total time.Duration) {
	printKeyValue("travel", s.GeoTravelType.String())
	printKeyValue("boundary", s.Boundary.String())
	printKeyValue("paths", fmt.Sprintf("%d", s.InputPaths))
	printKeyValue("factories", fmt.Sprintf("%d", s.Factories))
	if s.HasSideTrip {
		printKeyValue("side trips", "yes")
	}
	printKeyValue("time", total.Round(time.Millisecond).String())
}

// displayName prefers the scenario name over its file path.
func displayName(name, path string) string {
	if name != "" {
		return name
	}
	return filepath.Base(path)
}
