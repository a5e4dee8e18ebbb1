package rag

import (
	"context"
	"fmt"
)

// DefaultBackend implements SearchBackend by combining an Embedder and a
// VectorStore. It embeds the query at search time and delegates similarity
// search to the store.
type DefaultBackend struct {
	// embedder converts query text to a dense vector.
	embedder Embedder

	// store performs the vector similarity search.
	store VectorStore

	// defaultCount is the number of results to return when the caller passes 0.
	defaultCount int
}

// NewBackend constructs a DefaultBackend from the given Embedder and
// VectorStore. defaultCount sets the fallback result count when Search is
// called with count=0.
func NewBackend(embedder Embedder, store VectorStore, defaultCount int) (*DefaultBackend, error) {
	if embedder == nil {
		return nil, fmt.Errorf("rag: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("rag: store must not be nil")
	}
	if defaultCount <= 0 {
		defaultCount = 5
	}
	return &DefaultBackend{
		embedder:     embedder,
		store:        store,
		defaultCount: defaultCount,
	}, nil
}

// Search embeds the query and returns the top-count most relevant passages.
// If count is 0 the defaultCount configured at construction time is used.
func (b *DefaultBackend) Search(ctx context.Context, query string, count int) ([]Passage, error) {
	if count <= 0 {
		count = b.defaultCount
	}

	embeddings, err := b.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("rag: embedding query failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("rag: embedder returned empty result for query")
	}

	passages, err := b.store.Search(ctx, embeddings[0], count)
	if err != nil {
		return nil, fmt.Errorf("rag: vector search failed: %w", err)
	}

	return passages, nil
}
