package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/lawrag/lawrag/internal/rag"
)

// NaiveStrategy retrieves whole-article passages straight from the backend
// with no deduplication — a single long article may occupy several of the
// top-k slots. The comparison identifier is the article_id metadata key.
type NaiveStrategy struct {
	// backend is the similarity search service over whole articles.
	backend rag.SearchBackend
}

// NewNaiveStrategy constructs a NaiveStrategy over the given backend.
func NewNaiveStrategy(backend rag.SearchBackend) (*NaiveStrategy, error) {
	if backend == nil {
		return nil, fmt.Errorf("retrieval: backend must not be nil")
	}
	return &NaiveStrategy{backend: backend}, nil
}

// Retrieve issues a single backend search at topK.
func (s *NaiveStrategy) Retrieve(ctx context.Context, query string, topK int) ([]rag.Passage, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", ErrInvalidArgument, topK)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidQuery
	}

	passages, err := s.backend.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if len(passages) > topK {
		passages = passages[:topK]
	}
	return passages, nil
}

// ArticleID reads the article identifier directly from passage metadata.
func (s *NaiveStrategy) ArticleID(p rag.Passage) (string, error) {
	id := p.Metadata[rag.MetaArticleID]
	if id == "" {
		return "", fmt.Errorf("%w: passage %s has no %s metadata", ErrMalformedPassage, p.ID, rag.MetaArticleID)
	}
	return id, nil
}

// Version returns the version token for the naive strategy.
func (s *NaiveStrategy) Version() Version {
	return VersionNaive
}
