// Package rag defines the interfaces for the retrieval layer over the
// statutory corpus: vector storage, query embedding, and similarity search.
// Concrete implementations (Qdrant, etc.) satisfy these interfaces so the
// retrieval strategies never depend on a specific backend.
package rag

import (
	"context"
)

// Passage represents a unit of retrieved statutory text. Passages are
// created fresh by each search and never mutated afterwards.
type Passage struct {
	// ID is the unique identifier for this passage (chunk or whole article).
	ID string

	// Content is the raw text content of the passage.
	Content string

	// Source is the origin URL or file path of the statute this passage
	// was extracted from.
	Source string

	// Metadata holds arbitrary key-value pairs (article_id, parent_id,
	// law_title, etc.) attached at indexing time.
	Metadata map[string]string

	// Score is the similarity score assigned by the search backend.
	// Higher means more relevant. Zero value means the score was not computed.
	Score float32
}

// Metadata keys written at indexing time and read back by the retrieval
// strategies. A passage missing the key its strategy expects indicates an
// indexing bug, not a retrieval-quality issue.
const (
	// MetaArticleID is the statutory article identifier carried by whole
	// articles (naive indexing) and echoed on chunks for convenience.
	MetaArticleID = "article_id"

	// MetaParentID is the identifier of the parent article a child chunk
	// belongs to (parent-child indexing).
	MetaParentID = "parent_id"

	// MetaChunkID is the identifier of the granular chunk itself.
	MetaChunkID = "chunk_id"
)

// SearchBackend is the opaque nearest-neighbor service the retrieval
// strategies are built on. Given a query string and a count it returns up to
// count passages ordered by decreasing relevance score. A query with zero
// matches returns an empty slice, not an error.
// Implementations must be safe to call from multiple goroutines.
type SearchBackend interface {
	// Search returns at most count passages for the query, best first.
	Search(ctx context.Context, query string, count int) ([]Passage, error)
}

// VectorStore is the interface for persisting and searching passage
// embeddings. Implementations must be safe to call from multiple goroutines.
type VectorStore interface {
	// Upsert stores or updates a batch of passages with their pre-computed
	// embeddings. The embeddings slice must be parallel to passages —
	// embeddings[i] is the vector for passages[i].
	Upsert(ctx context.Context, passages []Passage, embeddings [][]float32) error

	// Search performs a semantic similarity search and returns the top-k
	// most relevant passages for the given query embedding.
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]Passage, error)

	// Delete removes passages by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the store.
	Close() error
}

// Embedder is the interface for converting text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
