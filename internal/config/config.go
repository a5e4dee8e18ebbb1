// Package config provides YAML-based configuration for lawrag.
// Configuration is loaded with a layered precedence: defaults → YAML file → env vars.
// Environment variables always win, so existing workflows are unaffected.
//
// File search order:
//  1. --config CLI flag (explicit path)
//  2. LAWRAG_CONFIG environment variable
//  3. ~/.lawrag/config.yaml
//  4. ./lawrag.yaml
//
// If no file is found the system runs entirely from env vars.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration structure.
// Field names use yaml tags that mirror the env var naming (lowercase, underscored).
type Config struct {
	// Embedding configures the embedding provider.
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Qdrant configures the Qdrant vector store connection.
	Qdrant QdrantConfig `yaml:"qdrant"`

	// Retrieval configures the retrieval strategy and its parameters.
	Retrieval RetrievalConfig `yaml:"retrieval"`

	// Corpus configures where statute source files are read from.
	Corpus CorpusConfig `yaml:"corpus"`

	// Eval configures evaluation dataset and report output.
	Eval EvalConfig `yaml:"eval"`

	// History configures evaluation run history persistence.
	History HistoryConfig `yaml:"history"`

	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Provider selects the embedding backend: ollama, openai, azure, gemini.
	Provider string `yaml:"provider"`
	// Model is the embedding model name.
	Model string `yaml:"model"`
	// Dimensions overrides the embedding vector size.
	Dimensions int `yaml:"dimensions"`
	// APIKey is the embedding API key. Prefer env var EMBEDDING_API_KEY.
	APIKey string `yaml:"api_key"`
	// Endpoint is the embedding API endpoint.
	Endpoint string `yaml:"endpoint"`
}

// QdrantConfig holds Qdrant vector store settings.
type QdrantConfig struct {
	// Host is the Qdrant server hostname.
	Host string `yaml:"host"`
	// Port is the Qdrant gRPC port.
	Port int `yaml:"port"`
	// Collection is the Qdrant collection name.
	Collection string `yaml:"collection"`
	// APIKey is the Qdrant API key. Prefer env var QDRANT_API_KEY.
	APIKey string `yaml:"api_key"`
	// TLS enables TLS for the Qdrant connection.
	TLS bool `yaml:"tls"`
}

// RetrievalConfig holds retrieval strategy settings.
type RetrievalConfig struct {
	// Version selects the strategy: naive, parent-child-fine, parent-child-coarse.
	Version string `yaml:"version"`
	// TopK is the number of passages returned per query.
	TopK int `yaml:"top_k"`
	// OversampleMultiplier controls the candidate pool size for
	// diversity-aware strategies.
	OversampleMultiplier int `yaml:"oversample_multiplier"`
	// SearchRPS caps backend searches per second (0 = unlimited).
	SearchRPS float64 `yaml:"search_rps"`
	// SearchBurst is the burst size for the search rate limiter.
	SearchBurst int `yaml:"search_burst"`
}

// CorpusConfig holds statute corpus settings.
type CorpusConfig struct {
	// DataDir is the directory containing statute JSON files.
	DataDir string `yaml:"data_dir"`
	// LawFiles lists the statute JSON files to load, relative to DataDir.
	LawFiles []string `yaml:"law_files"`
}

// EvalConfig holds evaluation settings.
type EvalConfig struct {
	// Dataset is the path to the labeled question dataset (JSON).
	Dataset string `yaml:"dataset"`
	// ReportsDir is the directory where run logs and reports are written.
	ReportsDir string `yaml:"reports_dir"`
}

// HistoryConfig holds evaluation run history settings.
type HistoryConfig struct {
	// DBPath is the SQLite database path. Set to "disabled" to disable.
	DBPath string `yaml:"db_path"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is the log output format: json, text.
	Format string `yaml:"format"`
}

// envMapping maps YAML config fields to their corresponding env var names.
// Only non-empty YAML values are applied; env vars always take precedence.
var envMapping = []struct {
	envKey string
	value  func(*Config) string
}{
	{"EMBEDDING_PROVIDER", func(c *Config) string { return c.Embedding.Provider }},
	{"EMBEDDING_MODEL", func(c *Config) string { return c.Embedding.Model }},
	{"EMBEDDING_DIMENSIONS", func(c *Config) string { return intStr(c.Embedding.Dimensions) }},
	{"EMBEDDING_API_KEY", func(c *Config) string { return c.Embedding.APIKey }},
	{"EMBEDDING_ENDPOINT", func(c *Config) string { return c.Embedding.Endpoint }},
	{"QDRANT_HOST", func(c *Config) string { return c.Qdrant.Host }},
	{"QDRANT_PORT", func(c *Config) string { return intStr(c.Qdrant.Port) }},
	{"QDRANT_COLLECTION", func(c *Config) string { return c.Qdrant.Collection }},
	{"QDRANT_API_KEY", func(c *Config) string { return c.Qdrant.APIKey }},
	{"QDRANT_TLS", func(c *Config) string { return boolStr(c.Qdrant.TLS) }},
	{"LAWRAG_VERSION", func(c *Config) string { return c.Retrieval.Version }},
	{"LAWRAG_TOP_K", func(c *Config) string { return intStr(c.Retrieval.TopK) }},
	{"LAWRAG_OVERSAMPLE_MULTIPLIER", func(c *Config) string { return intStr(c.Retrieval.OversampleMultiplier) }},
	{"LAWRAG_SEARCH_RPS", func(c *Config) string { return float64Str(c.Retrieval.SearchRPS) }},
	{"LAWRAG_SEARCH_BURST", func(c *Config) string { return intStr(c.Retrieval.SearchBurst) }},
	{"LAWRAG_DATA_DIR", func(c *Config) string { return c.Corpus.DataDir }},
	{"LAWRAG_LAW_FILES", func(c *Config) string { return strings.Join(c.Corpus.LawFiles, ",") }},
	{"LAWRAG_DATASET", func(c *Config) string { return c.Eval.Dataset }},
	{"LAWRAG_REPORTS_DIR", func(c *Config) string { return c.Eval.ReportsDir }},
	{"LAWRAG_HISTORY_DB", func(c *Config) string { return c.History.DBPath }},
	{"LOG_LEVEL", func(c *Config) string { return c.Logging.Level }},
	{"LOG_FORMAT", func(c *Config) string { return c.Logging.Format }},
}

// Load reads a YAML config file and applies non-empty values as environment
// variables. Existing env vars are never overwritten (env always wins).
// Returns the path that was loaded, or empty string if no file was found.
func Load(explicitPath string, log *slog.Logger) (string, error) {
	path := resolveConfigPath(explicitPath)
	if path == "" {
		log.Debug("config: no YAML config file found, using env vars only")
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	applied := 0
	for _, m := range envMapping {
		yamlVal := m.value(&cfg)
		if yamlVal == "" || yamlVal == "0" || yamlVal == "false" {
			continue
		}
		if os.Getenv(m.envKey) != "" {
			continue // env var already set — do not override
		}
		os.Setenv(m.envKey, yamlVal)
		applied++
	}

	log.Info("config: loaded YAML config",
		slog.String("path", path),
		slog.Int("keys_applied", applied),
	)

	return path, nil
}

// resolveConfigPath returns the first config file path that exists.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if envPath := os.Getenv("LAWRAG_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		p := filepath.Join(home, ".lawrag", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if _, err := os.Stat("lawrag.yaml"); err == nil {
		return "lawrag.yaml"
	}

	return ""
}

// intStr converts an int to string, returning "" for zero values.
func intStr(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}

// float64Str converts a float64 to string, returning "" for zero values.
func float64Str(v float64) string {
	if v == 0 {
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

// boolStr converts a bool to string, returning "" for false.
func boolStr(v bool) string {
	if !v {
		return ""
	}
	return "true"
}
