package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/lawrag/lawrag/internal/embedder"
	"github.com/lawrag/lawrag/internal/rag"
	"github.com/lawrag/lawrag/internal/retrieval"
)

// getEnvOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvFloat returns the float value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// resolveVersion returns the effective strategy version token. An explicit
// --rag-version flag wins; otherwise LAWRAG_VERSION (set directly or via the
// YAML retrieval.version key) applies, then the flag default.
func resolveVersion(explicit bool, flagValue string) string {
	if explicit {
		return flagValue
	}
	return getEnvOrDefault("LAWRAG_VERSION", flagValue)
}

// collectionFor returns the Qdrant collection name for a strategy version.
// QDRANT_COLLECTION overrides the per-version default; when it is unset each
// version gets its own collection so corpus layouts never mix.
func collectionFor(version retrieval.Version) string {
	if v := os.Getenv("QDRANT_COLLECTION"); v != "" {
		return v
	}
	return "lawrag-" + string(version)
}

// buildBackend wires the embedder, Qdrant store, and optional rate limiter
// into a rag.SearchBackend for the given strategy version. The returned
// cleanup func closes the underlying gRPC connection.
func buildBackend(ctx context.Context, log *slog.Logger, version retrieval.Version) (rag.SearchBackend, func(), error) {
	if err := embedder.Validate(log); err != nil {
		return nil, nil, err
	}

	emb, err := embedder.NewFromEnv(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("initialise embedder: %w", err)
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
		return nil, nil, fmt.Errorf("connect to Qdrant at %s:%d: %w", qdrantHost, qdrantPort, err)
	}
	log.Info("qdrant store ready",
		slog.String("host", qdrantHost),
		slog.Int("port", qdrantPort),
		slog.String("collection", collection),
	)

	backend, err := rag.NewBackend(emb, store, getEnvInt("LAWRAG_TOP_K", 3))
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("initialise backend: %w", err)
	}

	var search rag.SearchBackend = backend
	if rps := getEnvFloat("LAWRAG_SEARCH_RPS", 0); rps > 0 {
		burst := getEnvInt("LAWRAG_SEARCH_BURST", 0)
		search = rag.NewLimitedBackend(backend, rps, burst)
		log.Info("search rate limiter enabled", slog.Float64("rps", rps))
	}

	return search, func() { _ = store.Close() }, nil
}

// buildStrategy resolves the version token and constructs the matching
// retrieval strategy on top of a freshly wired backend.
func buildStrategy(ctx context.Context, log *slog.Logger, versionToken string) (retrieval.Strategy, func(), error) {
	version, err := retrieval.ParseVersion(versionToken)
	if err != nil {
		return nil, nil, err
	}

	backend, closeBackend, err := buildBackend(ctx, log, version)
	if err != nil {
		return nil, nil, err
	}

	strategy, err := retrieval.NewStrategy(version, backend, &retrieval.FactoryConfig{
		OversampleMultiplier: getEnvInt("LAWRAG_OVERSAMPLE_MULTIPLIER", 0),
	})
	if err != nil {
		closeBackend()
		return nil, nil, err
	}

	return strategy, closeBackend, nil
}
