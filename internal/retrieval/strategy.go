// Package retrieval implements the swappable retrieval strategies over the
// statutory corpus. A Strategy pairs a search behavior with the rule for
// extracting the article identifier used to judge a retrieved passage
// against ground truth, so the evaluator never depends on a concrete
// strategy.
package retrieval

import (
	"context"
	"errors"

	"github.com/lawrag/lawrag/internal/rag"
)

// Sentinel errors for the retrieval layer. Callers distinguish them with
// errors.Is; see the evaluator for which ones are fatal to a run.
var (
	// ErrInvalidQuery means the query was empty after normalization.
	ErrInvalidQuery = errors.New("retrieval: invalid query")

	// ErrInvalidArgument means a caller-supplied parameter (top-k) was out
	// of range.
	ErrInvalidArgument = errors.New("retrieval: invalid argument")

	// ErrBackendUnavailable means the similarity search backend could not
	// be reached. Transient; an evaluation run scores the query zero and
	// continues rather than retrying.
	ErrBackendUnavailable = errors.New("retrieval: search backend unavailable")

	// ErrMalformedPassage means a retrieved passage is missing the metadata
	// key its strategy needs to resolve an article identifier. This is an
	// indexing contract violation and aborts the run.
	ErrMalformedPassage = errors.New("retrieval: malformed passage")

	// ErrUnsupportedVersion means the factory was asked for a retrieval
	// version outside the closed enumeration.
	ErrUnsupportedVersion = errors.New("retrieval: unsupported version")
)

// Strategy is the capability set every retrieval variant implements.
// Retrieve must be deterministic given a fixed backend response, and
// ArticleID must be a pure function of the passage's metadata.
type Strategy interface {
	// Retrieve returns at most topK passages for the query, ordered by
	// descending relevance score with backend order preserved on ties.
	// Fails with ErrInvalidQuery for an empty query, ErrInvalidArgument
	// for topK <= 0, and ErrBackendUnavailable when the backend cannot
	// be reached.
	Retrieve(ctx context.Context, query string, topK int) ([]rag.Passage, error)

	// ArticleID extracts the identifier compared against ground truth.
	// Fails with ErrMalformedPassage when the expected metadata key is
	// absent. Never performs I/O.
	ArticleID(p rag.Passage) (string, error)

	// Version returns the version token this strategy was constructed for.
	Version() Version
}
