package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunInfo describes the configuration an evaluation run executed under,
// recorded in every report so results stay comparable across experiments.
type RunInfo struct {
	// Version is the retrieval strategy version token.
	Version string `json:"version"`

	// Description is the operator-supplied experiment note.
	Description string `json:"description,omitempty"`

	// EmbeddingModel is the embedding model the corpus was indexed with.
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// ChunkSize is the ingestion chunk size in effect for this corpus.
	ChunkSize int `json:"chunk_size,omitempty"`

	// TopK is the retrieval result cap.
	TopK int `json:"top_k"`

	// DatasetPath is the labeled query set the run consumed.
	DatasetPath string `json:"dataset_path,omitempty"`
}

// runLog is the top-level JSON report structure.
type runLog struct {
	Meta      runMeta      `json:"meta"`
	FailCases []FailedCase `json:"fail_cases"`
}

// runMeta is the metadata block of the JSON report.
type runMeta struct {
	RunID         string  `json:"run_id"`
	Timestamp     string  `json:"timestamp"`
	Description   string  `json:"description,omitempty"`
	Configuration RunInfo `json:"configuration"`
	OverallScore  Summary `json:"overall_score"`
}

// WriteJSONLog writes the structured run log to dir and returns the file
// path. The file name embeds the version and a sortable timestamp so
// successive runs never collide.
func WriteJSONLog(res *Result, info RunInfo, prefix, dir string) (string, error) {
	if prefix == "" {
		prefix = "RTV"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%s_%s", prefix, info.Version, now.Format("20060102-150405"))

	out := runLog{
		Meta: runMeta{
			RunID:         runID,
			Timestamp:     now.Format(time.RFC3339),
			Description:   info.Description,
			Configuration: info,
			OverallScore:  res.Summary,
		},
		FailCases: res.FailedCases,
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("evaluation: creating report dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("evaluation: marshaling run log: %w", err)
	}

	path := filepath.Join(dir, runID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("evaluation: writing run log %s: %w", path, err)
	}
	return path, nil
}

// WriteTextReport writes a human-readable summary with a failed-cases
// section to dir and returns the file path.
func WriteTextReport(res *Result, info RunInfo, name, dir string) (string, error) {
	if name == "" {
		name = "default"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Retrieval Evaluation Report\n")
	fmt.Fprintf(&b, "Version: %s\n", info.Version)
	fmt.Fprintf(&b, "Total Queries: %d\n", res.Summary.QueryCount)
	fmt.Fprintf(&b, "Average Recall@%d: %.4f\n", res.Summary.TopK, res.Summary.MeanRecall)
	fmt.Fprintf(&b, "Average Precision@%d: %.4f\n", res.Summary.TopK, res.Summary.MeanPrecision)
	fmt.Fprintf(&b, "MAP@%d: %.4f\n", res.Summary.TopK, res.Summary.MAP)
	fmt.Fprintf(&b, "MRR@%d: %.4f\n", res.Summary.TopK, res.Summary.MRR)
	fmt.Fprintf(&b, "Config: top_k=%d\n", info.TopK)

	if len(res.FailedCases) > 0 {
		fmt.Fprintf(&b, "\nFailed Cases (Recall < 1.0):\n")
		for _, c := range res.FailedCases {
			fmt.Fprintf(&b, "[%s] %s\n", c.ID, c.Question)
			fmt.Fprintf(&b, "  Recall: %.2f\n", c.Recall)
			fmt.Fprintf(&b, "  Expected: %v | Retrieved: %v\n", c.ExpectedIDs, c.RetrievedIDs)
			fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 20))
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("evaluation: creating report dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+"_eval_report.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("evaluation: writing report %s: %w", path, err)
	}
	return path, nil
}
