package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lawrag/lawrag/internal/corpus"
	"github.com/lawrag/lawrag/internal/embedder"
	"github.com/lawrag/lawrag/internal/ingestion"
	"github.com/lawrag/lawrag/internal/logging"
	"github.com/lawrag/lawrag/internal/rag"
	"github.com/lawrag/lawrag/internal/retrieval"
)

// NewIngestCmd constructs the `lawrag ingest` command, which chunks the
// statute corpus and indexes it into the vector store for one strategy
// version.
func NewIngestCmd() *cobra.Command {
	var ragVersion string
	var dataDir string
	var lawFiles []string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index the statute corpus for a retrieval strategy version",
		Long: `Load statute JSON files, chunk them according to the selected strategy
version, embed the chunks, and upsert them into the version's Qdrant
collection.

The naive version indexes one passage per article. The parent-child versions
split each article into paragraph (coarse) or subparagraph (fine) chunks that
carry their parent article ID, which the diversity retriever dedups at query
time.

Required environment variables:
  QDRANT_HOST          Qdrant server hostname (default: localhost)
  QDRANT_PORT          Qdrant gRPC port (default: 6334)
  EMBEDDING_PROVIDER   Embedding backend: ollama, openai, azure, gemini (default: ollama)
  EMBEDDING_*          Provider-specific overrides (see README)

Examples:
  lawrag ingest --rag-version naive --data-dir ./data --law-file labor_standards_act.json
  lawrag ingest --rag-version parent-child-fine`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()
			ctx := logging.WithLogger(cmd.Context(), log)

			ragVersion = resolveVersion(cmd.Flags().Changed("rag-version"), ragVersion)
			version, err := retrieval.ParseVersion(ragVersion)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			if dataDir == "" {
				dataDir = getEnvOrDefault("LAWRAG_DATA_DIR", "data")
			}
			if len(lawFiles) == 0 {
				if env := os.Getenv("LAWRAG_LAW_FILES"); env != "" {
					lawFiles = strings.Split(env, ",")
				}
			}
			if len(lawFiles) == 0 {
				return fmt.Errorf("ingest: no law files configured — pass --law-file or set LAWRAG_LAW_FILES")
			}

			laws, err := corpus.LoadLaws(dataDir, lawFiles)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			articles := 0
			for _, law := range laws {
				articles += len(law.Articles)
			}
			log.Info("corpus loaded",
				slog.Int("laws", len(laws)),
				slog.Int("articles", articles),
			)

			if err := embedder.Validate(log); err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			emb, err := embedder.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("ingest: failed to initialise embedder: %w", err)
			}

			embBackend := getEnvOrDefault("EMBEDDING_PROVIDER", "ollama")
			qdrantHost := getEnvOrDefault("QDRANT_HOST", "localhost")
			qdrantPort := getEnvInt("QDRANT_PORT", 6334)
			collection := collectionFor(version)
			vectorSize := uint64(embedder.DefaultDimensions(embBackend)) //nolint:gosec // dimensions are bounded

			store, err := rag.NewQdrantStore(ctx, &rag.QdrantConfig{
				Host:       qdrantHost,
				Port:       qdrantPort,
				Collection: collection,
				VectorSize: vectorSize,
				APIKey:     os.Getenv("QDRANT_API_KEY"),
				UseTLS:     os.Getenv("QDRANT_TLS") == "true",
			})
			if err != nil {
				return fmt.Errorf("ingest: failed to connect to Qdrant at %s:%d: %w", qdrantHost, qdrantPort, err)
			}
			defer store.Close()
			log.Info("qdrant store ready", slog.String("collection", collection))

			pipeline, err := ingestion.NewPipeline(emb, store, &ingestion.Config{BatchSize: batchSize})
			if err != nil {
				return fmt.Errorf("ingest: failed to create pipeline: %w", err)
			}

			progress := func(msg string) { log.Info(msg) }

			switch version {
			case retrieval.VersionNaive:
				err = pipeline.IndexNaive(ctx, laws, progress)
			case retrieval.VersionParentChildFine:
				err = pipeline.IndexParentChild(ctx, laws, ingestion.GranularityFine, progress)
			case retrieval.VersionParentChildCoarse:
				err = pipeline.IndexParentChild(ctx, laws, ingestion.GranularityCoarse, progress)
			}
			if err != nil {
				return fmt.Errorf("ingest: pipeline failed: %w", err)
			}

			log.Info("ingestion complete",
				slog.String("version", string(version)),
				slog.String("collection", collection),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&ragVersion, "rag-version", "r", "naive", "Retrieval strategy version to index for (overrides LAWRAG_VERSION)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory containing statute JSON files (default: LAWRAG_DATA_DIR)")
	cmd.Flags().StringArrayVar(&lawFiles, "law-file", nil, "Statute JSON file relative to data dir (repeatable; default: LAWRAG_LAW_FILES)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Embedding batch size (default: 32)")

	return cmd
}
