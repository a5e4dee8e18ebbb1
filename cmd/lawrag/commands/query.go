package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawrag/lawrag/internal/logging"
	"github.com/lawrag/lawrag/internal/rag"
)

// NewQueryCmd constructs the `lawrag query` command, which runs a single
// question through the selected strategy and prints the retrieved passages.
// Useful for spot-checking what the evaluator sees.
func NewQueryCmd() *cobra.Command {
	var ragVersion string
	var topK int
	var showContent bool

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Retrieve passages for a single question",
		Long: `Retrieve the top-k passages for one question and print the resolved
article IDs, scores, and citations.

Examples:
  lawrag query "How many days of notice must an employer give before dismissal?"
  lawrag query --rag-version parent-child-fine --top-k 5 --content "severance pay"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()
			ctx := logging.WithLogger(cmd.Context(), log)

			ragVersion = resolveVersion(cmd.Flags().Changed("rag-version"), ragVersion)
			strategy, closeBackend, err := buildStrategy(ctx, log, ragVersion)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}
			defer closeBackend()

			if topK == 0 {
				topK = getEnvInt("LAWRAG_TOP_K", 3)
			}

			passages, err := strategy.Retrieve(ctx, args[0], topK)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			for i, p := range passages {
				articleID, err := strategy.ArticleID(p)
				if err != nil {
					return fmt.Errorf("query: resolving passage %d: %w", i+1, err)
				}
				fmt.Printf("%d. article=%s score=%.4f source=%s\n", i+1, articleID, p.Score, p.Source)
				if chunkID := p.Metadata[rag.MetaChunkID]; chunkID != "" {
					fmt.Printf("   chunk=%s\n", chunkID)
				}
				if showContent {
					fmt.Printf("   %s\n", p.Content)
				}
			}
			if len(passages) == 0 {
				fmt.Println("no passages retrieved — is the collection indexed for this version?")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&ragVersion, "rag-version", "r", "naive", "Retrieval strategy version (naive, parent-child-fine, parent-child-coarse; overrides LAWRAG_VERSION)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of passages to retrieve (default: LAWRAG_TOP_K or 3)")
	cmd.Flags().BoolVar(&showContent, "content", false, "Print passage text, not just IDs and scores")

	return cmd
}
