package commands

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lawrag/lawrag/internal/evaluation"
	"github.com/lawrag/lawrag/internal/logging"
	"github.com/lawrag/lawrag/internal/store"
)

// NewEvalCmd constructs the `lawrag eval` command, which runs a retrieval
// strategy against the labeled question dataset and reports IR metrics.
func NewEvalCmd() *cobra.Command {
	var ragVersion string
	var topK int
	var datasetPath string
	var description string
	var smoke bool
	var writeJSON bool
	var writeReport bool
	var reportsDir string
	var metricsListen string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a retrieval strategy against the labeled dataset",
		Long: `Run every question in the labeled dataset through the selected retrieval
strategy and compute precision@k, recall@k, MAP@k, and MRR@k.

With --smoke only the queries tagged "smoke_test" are run, and the command
exits non-zero if their average recall falls below the pass threshold. Use
this as a fast pre-flight before a full (and slow) evaluation.

Examples:
  lawrag eval --rag-version naive
  lawrag eval --rag-version parent-child-fine --top-k 3 --json --report
  lawrag eval --rag-version parent-child-coarse --smoke`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New()
			ctx := logging.WithLogger(cmd.Context(), log)

			ragVersion = resolveVersion(cmd.Flags().Changed("rag-version"), ragVersion)
			if datasetPath == "" {
				datasetPath = getEnvOrDefault("LAWRAG_DATASET", "data/questions.json")
			}
			if reportsDir == "" {
				reportsDir = getEnvOrDefault("LAWRAG_REPORTS_DIR", "reports")
			}
			if topK == 0 {
				topK = getEnvInt("LAWRAG_TOP_K", 3)
			}

			queries, err := evaluation.LoadDataset(datasetPath)
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}
			log.Info("dataset loaded",
				slog.String("path", datasetPath),
				slog.Int("queries", len(queries)),
			)

			strategy, closeBackend, err := buildStrategy(ctx, log, ragVersion)
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}
			defer closeBackend()

			reg := prometheus.NewRegistry()
			evaluator, err := evaluation.New(strategy, topK)
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}
			evaluator = evaluator.WithMetrics(evaluation.NewMetrics(reg))

			if metricsListen != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				go func() {
					if err := http.ListenAndServe(metricsListen, mux); err != nil {
						log.Warn("metrics listener stopped", slog.String("error", err.Error()))
					}
				}()
				log.Info("metrics exposed", slog.String("addr", metricsListen+"/metrics"))
			}

			if smoke {
				passed, err := evaluator.RunSmokeTest(ctx, queries)
				if err != nil {
					return fmt.Errorf("eval: smoke test: %w", err)
				}
				if !passed {
					return fmt.Errorf("eval: smoke test failed — recall below threshold, check index and embedder before a full run")
				}
				fmt.Println("smoke test passed")
				return nil
			}

			res, err := evaluator.EvaluateDataset(ctx, queries)
			if err != nil {
				return fmt.Errorf("eval: %w", err)
			}

			s := res.Summary
			fmt.Printf("version=%s queries=%d\n", ragVersion, s.QueryCount)
			fmt.Printf("recall@%d=%.4f precision@%d=%.4f map@%d=%.4f mrr@%d=%.4f\n",
				s.TopK, s.MeanRecall, s.TopK, s.MeanPrecision, s.TopK, s.MAP, s.TopK, s.MRR)

			info := evaluation.RunInfo{
				Version:        ragVersion,
				Description:    description,
				EmbeddingModel: getEnvOrDefault("EMBEDDING_MODEL", ""),
				TopK:           topK,
				DatasetPath:    datasetPath,
			}

			var runID string
			if writeJSON {
				path, err := evaluation.WriteJSONLog(res, info, "lawrag", reportsDir)
				if err != nil {
					return fmt.Errorf("eval: %w", err)
				}
				runID = strings.TrimSuffix(filepath.Base(path), ".json")
				log.Info("run log written", slog.String("path", path))
			}
			if writeReport {
				path, err := evaluation.WriteTextReport(res, info, ragVersion, reportsDir)
				if err != nil {
					return fmt.Errorf("eval: %w", err)
				}
				log.Info("text report written", slog.String("path", path))
			}

			if err := saveRunHistory(cmd, runID, ragVersion, datasetPath, res, log); err != nil {
				// History is best-effort — the evaluation itself succeeded.
				log.Warn("run history not saved", slog.String("error", err.Error()))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&ragVersion, "rag-version", "r", "naive", "Retrieval strategy version (naive, parent-child-fine, parent-child-coarse; overrides LAWRAG_VERSION)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of passages retrieved per query (default: LAWRAG_TOP_K or 3)")
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to labeled question dataset (default: LAWRAG_DATASET)")
	cmd.Flags().StringVar(&description, "description", "", "Experiment note recorded in the run log")
	cmd.Flags().BoolVar(&smoke, "smoke", false, "Run only smoke_test-tagged queries as a fast pre-flight")
	cmd.Flags().BoolVar(&writeJSON, "json", false, "Write a structured JSON run log")
	cmd.Flags().BoolVar(&writeReport, "report", false, "Write a human-readable text report")
	cmd.Flags().StringVar(&reportsDir, "reports-dir", "", "Directory for run logs and reports (default: LAWRAG_REPORTS_DIR or ./reports)")
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "Expose Prometheus metrics on this address during the run (e.g. :9090)")

	return cmd
}

// saveRunHistory persists the run summary to the SQLite history database.
// Set LAWRAG_HISTORY_DB=disabled to skip persistence entirely.
func saveRunHistory(cmd *cobra.Command, runID, version, dataset string, res *evaluation.Result, log *slog.Logger) error {
	dbPath := getEnvOrDefault("LAWRAG_HISTORY_DB", "")
	if dbPath == "disabled" {
		return nil
	}
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return err
		}
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if runID == "" {
		// No JSON log was written; synthesize a comparable identifier.
		runID = fmt.Sprintf("lawrag_%s_%s", version, time.Now().Format("20060102-150405"))
	}

	run := store.Run{
		RunID:         runID,
		Version:       version,
		Dataset:       dataset,
		TopK:          res.Summary.TopK,
		QueryCount:    res.Summary.QueryCount,
		MeanRecall:    res.Summary.MeanRecall,
		MeanPrecision: res.Summary.MeanPrecision,
		MAP:           res.Summary.MAP,
		MRR:           res.Summary.MRR,
	}
	if err := s.Save(cmd.Context(), run); err != nil {
		return err
	}
	log.Info("run history saved", slog.String("db", dbPath), slog.String("run_id", runID))
	return nil
}
