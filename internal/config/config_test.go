package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoFile(t *testing.T) {
	t.Parallel()

	log := slog.Default()
	path, err := Load("/nonexistent/path/config.yaml", log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path, got %q", path)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := []byte(`
embedding:
  provider: ollama
  model: nomic-embed-text
qdrant:
  host: qdrant.internal
  port: 6334
  collection: labor-law
retrieval:
  version: parent-child-fine
  top_k: 3
  oversample_multiplier: 5
corpus:
  data_dir: ./data
  law_files:
    - labor_standards_act.json
    - enforcement_rules.json
eval:
  dataset: ./data/questions.json
  reports_dir: ./reports
logging:
  level: debug
  format: text
`)

	if err := os.WriteFile(cfgPath, content, 0o644); err != nil {
		t.Fatal(err)
	}

	// Clear env vars that the YAML should set.
	envKeys := []string{
		"EMBEDDING_PROVIDER", "EMBEDDING_MODEL",
		"QDRANT_HOST", "QDRANT_PORT", "QDRANT_COLLECTION",
		"LAWRAG_VERSION", "LAWRAG_TOP_K", "LAWRAG_OVERSAMPLE_MULTIPLIER",
		"LAWRAG_DATA_DIR", "LAWRAG_LAW_FILES",
		"LAWRAG_DATASET", "LAWRAG_REPORTS_DIR",
		"LOG_LEVEL", "LOG_FORMAT",
	}
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	log := slog.Default()
	loaded, err := Load(cfgPath, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != cfgPath {
		t.Errorf("loaded path: got %q, want %q", loaded, cfgPath)
	}

	checks := map[string]string{
		"EMBEDDING_PROVIDER":           "ollama",
		"EMBEDDING_MODEL":              "nomic-embed-text",
		"QDRANT_HOST":                  "qdrant.internal",
		"QDRANT_PORT":                  "6334",
		"QDRANT_COLLECTION":            "labor-law",
		"LAWRAG_VERSION":               "parent-child-fine",
		"LAWRAG_TOP_K":                 "3",
		"LAWRAG_OVERSAMPLE_MULTIPLIER": "5",
		"LAWRAG_DATA_DIR":              "./data",
		"LAWRAG_LAW_FILES":             "labor_standards_act.json,enforcement_rules.json",
		"LAWRAG_DATASET":               "./data/questions.json",
		"LAWRAG_REPORTS_DIR":           "./reports",
		"LOG_LEVEL":                    "debug",
		"LOG_FORMAT":                   "text",
	}
	for k, want := range checks {
		got := os.Getenv(k)
		if got != want {
			t.Errorf("%s: got %q, want %q", k, got, want)
		}
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := []byte(`
retrieval:
  version: naive
`)
	if err := os.WriteFile(cfgPath, content, 0o644); err != nil {
		t.Fatal(err)
	}

	// Set env var BEFORE loading — it should NOT be overwritten.
	t.Setenv("LAWRAG_VERSION", "parent-child-coarse")

	log := slog.Default()
	_, err := Load(cfgPath, log)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := os.Getenv("LAWRAG_VERSION"); got != "parent-child-coarse" {
		t.Errorf("LAWRAG_VERSION: expected env override %q, got %q", "parent-child-coarse", got)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(cfgPath, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	log := slog.Default()
	_, err := Load(cfgPath, log)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestFloat64Str(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   float64
		want string
	}{
		{0.0, ""},
		{0.5, "0.5"},
		{2.5, "2.5"},
		{10.0, "10"},
	}
	for _, tt := range tests {
		if got := float64Str(tt.in); got != tt.want {
			t.Errorf("float64Str(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
