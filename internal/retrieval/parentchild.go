package retrieval

import (
	"context"
	"fmt"

	"github.com/lawrag/lawrag/internal/rag"
)

// ParentChildStrategy searches over granular child chunks but evaluates at
// the parent-article level: retrieval goes through a DiversityRetriever so
// no two results share a parent, and the comparison identifier is the
// parent_id metadata key. The fine and coarse versions differ only in how
// ingestion grouped children under parents — retrieval logic is identical.
type ParentChildStrategy struct {
	// diversity is the oversample/dedup/truncate retriever over child chunks.
	diversity *DiversityRetriever

	// version records which chunking configuration this strategy serves.
	version Version
}

// NewParentChildStrategy constructs a ParentChildStrategy for the given
// chunking version. multiplier of 0 uses the default oversampling factor.
func NewParentChildStrategy(backend rag.SearchBackend, version Version, multiplier int) (*ParentChildStrategy, error) {
	diversity, err := NewDiversityRetriever(backend, multiplier)
	if err != nil {
		return nil, err
	}
	return &ParentChildStrategy{diversity: diversity, version: version}, nil
}

// Retrieve delegates to the diversity retriever; the result carries at most
// topK passages with pairwise-distinct parents.
func (s *ParentChildStrategy) Retrieve(ctx context.Context, query string, topK int) ([]rag.Passage, error) {
	return s.diversity.Retrieve(ctx, query, topK)
}

// ArticleID reads the parent article id a child chunk points to, falling
// back to article_id for passages indexed without a parent.
func (s *ParentChildStrategy) ArticleID(p rag.Passage) (string, error) {
	if id := p.Metadata[rag.MetaParentID]; id != "" {
		return id, nil
	}
	if id := p.Metadata[rag.MetaArticleID]; id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: passage %s has neither %s nor %s metadata",
		ErrMalformedPassage, p.ID, rag.MetaParentID, rag.MetaArticleID)
}

// Version returns the chunking version token this strategy was built for.
func (s *ParentChildStrategy) Version() Version {
	return s.version
}
