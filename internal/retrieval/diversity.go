package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/lawrag/lawrag/internal/rag"
)

// Oversampling defaults for the diversity retriever. The pool must be
// strictly larger than top-k so deduplication has candidates to discard.
const (
	// defaultOversampleMultiplier is applied to top-k to size the
	// candidate pool requested from the backend.
	defaultOversampleMultiplier = 5

	// minOversample is the floor on the candidate pool size so that small
	// top-k values still produce a meaningful pool.
	minOversample = 10
)

// DiversityRetriever wraps a SearchBackend and returns top-k passages
// representing distinct parent articles, chosen by relevance. It oversamples
// the backend, keeps the highest-scoring passage per diversity key, and
// truncates to top-k. It never re-queries when the pool yields fewer than
// top-k distinct parents — growing the pool is an explicit caller decision.
type DiversityRetriever struct {
	// backend is the similarity search service over child chunks.
	backend rag.SearchBackend

	// multiplier scales top-k into the oversampled candidate pool size.
	multiplier int
}

// NewDiversityRetriever constructs a DiversityRetriever. A multiplier of 0
// falls back to the package default.
func NewDiversityRetriever(backend rag.SearchBackend, multiplier int) (*DiversityRetriever, error) {
	if backend == nil {
		return nil, fmt.Errorf("retrieval: backend must not be nil")
	}
	if multiplier < 0 {
		return nil, fmt.Errorf("%w: oversample multiplier must not be negative, got %d", ErrInvalidArgument, multiplier)
	}
	if multiplier == 0 {
		multiplier = defaultOversampleMultiplier
	}
	return &DiversityRetriever{backend: backend, multiplier: multiplier}, nil
}

// Retrieve oversamples, deduplicates on the diversity key, and truncates.
func (r *DiversityRetriever) Retrieve(ctx context.Context, query string, topK int) ([]rag.Passage, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", ErrInvalidArgument, topK)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidQuery
	}

	pool := topK * r.multiplier
	if pool < minOversample {
		pool = minOversample
	}
	// The pool must stay strictly larger than top-k or dedup has nothing
	// to discard (multiplier 1 with a large top-k would collapse it).
	if pool <= topK {
		pool = topK + 1
	}

	candidates, err := r.backend.Search(ctx, query, pool)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	deduped := dedupByParent(candidates)
	if len(deduped) > topK {
		deduped = deduped[:topK]
	}
	return deduped, nil
}

// dedupByParent keeps only the first (highest-scoring, since candidates
// arrive best-first) passage per diversity key, preserving order. Passages
// with no resolvable key are kept as unique rather than dropped — a schema
// gap should not silently discard content before evaluation flags it.
func dedupByParent(candidates []rag.Passage) []rag.Passage {
	seen := make(map[string]bool, len(candidates))
	kept := make([]rag.Passage, 0, len(candidates))

	for _, p := range candidates {
		key := diversityKey(p)
		if key == "" {
			kept = append(kept, p)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, p)
	}
	return kept
}

// diversityKey returns the identifier used to detect duplicate-source
// passages: the parent article id, falling back to the article id for
// passages indexed without a parent.
func diversityKey(p rag.Passage) string {
	if id := p.Metadata[rag.MetaParentID]; id != "" {
		return id
	}
	return p.Metadata[rag.MetaArticleID]
}
