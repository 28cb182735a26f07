package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/store"
)

// runsCommand lists and shows recorded builds.
func (c *CLI) runsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.recordStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No builds recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), runsTable(recs, time.Now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "number of builds to list")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print one build record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !store.ValidID(args[0]) {
				return ferrors.New(ferrors.ErrCodeInvalidInput, "invalid build id %q", args[0])
			}
			st, err := c.recordStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return ferrors.New(ferrors.ErrCodeNotFound, "build %s not found", args[0])
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	})

	return cmd
}

// recordStore opens the build record store, or fails with UNSUPPORTED
// when records are disabled.
func (c *CLI) recordStore(cmd *cobra.Command) (store.Store, error) {
	if c.infra.noRecords {
		return nil, ferrors.New(ferrors.ErrCodeUnsupported, "build records are disabled")
	}
	return c.newStore(cmd.Context())
}

// runsTable renders records newest first.
func runsTable(recs []*store.BuildRecord, now time.Time) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		cache := ""
		if r.CacheHit {
			cache = iconCached
		}
		paths := fmt.Sprintf("%d", r.PUPaths)
		if r.Truncated {
			paths += "+"
		}
		rows[i] = []string{
			r.ID[:8],
			displayName(r.ScenarioName, r.ScenarioHash[:12]),
			paths,
			fmt.Sprintf("%d", r.UniquePUs),
			r.Duration.Round(time.Millisecond).String(),
			cache,
			formatRelativeTime(r.CreatedAt, now),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Scenario", "PU paths", "Units", "Time", "Cache", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 5:
				return styleCached
			case col == 0 || col == 6:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// formatRelativeTime renders t relative to now, e.g. "5m ago".
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
