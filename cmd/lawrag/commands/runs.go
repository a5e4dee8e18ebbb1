package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lawrag/lawrag/internal/store"
)

// NewRunsCmd constructs the `lawrag runs` command, which lists recent
// evaluation runs from the history database for quick comparison.
func NewRunsCmd() *cobra.Command {
	var ragVersion string
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent evaluation runs",
		Long: `List recent evaluation runs recorded in the history database, newest
first. Filter by strategy version to compare successive runs of the same
configuration.

Examples:
  lawrag runs
  lawrag runs --rag-version parent-child-fine --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := getEnvOrDefault("LAWRAG_HISTORY_DB", "")
			if dbPath == "disabled" {
				return fmt.Errorf("runs: history is disabled (LAWRAG_HISTORY_DB=disabled)")
			}
			if dbPath == "" {
				var err error
				dbPath, err = store.DefaultDBPath()
				if err != nil {
					return fmt.Errorf("runs: %w", err)
				}
			}

			s, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("runs: %w", err)
			}
			defer s.Close()

			runs, err := s.Recent(cmd.Context(), ragVersion, limit)
			if err != nil {
				return fmt.Errorf("runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("no runs recorded yet")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tVERSION\tQUERIES\tRECALL\tPRECISION\tMAP\tMRR\tWHEN")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%s\n",
					r.RunID, r.Version, r.QueryCount,
					r.MeanRecall, r.MeanPrecision, r.MAP, r.MRR,
					r.CreatedAt.Format("2006-01-02 15:04"),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&ragVersion, "rag-version", "r", "", "Filter runs by strategy version")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list")

	return cmd
}
