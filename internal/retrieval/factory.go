package retrieval

import (
	"fmt"

	"github.com/lawrag/lawrag/internal/rag"
)

// Version is a token from the closed enumeration of retrieval strategies.
// The set is fixed at compile time — there is no runtime registry.
type Version string

const (
	// VersionNaive indexes whole articles and searches them flat.
	VersionNaive Version = "naive"

	// VersionParentChildFine searches fine-grained child chunks
	// (paragraph/subparagraph level) resolved to parent articles.
	VersionParentChildFine Version = "parent-child-fine"

	// VersionParentChildCoarse searches coarse child chunks (paragraph
	// level) resolved to parent articles.
	VersionParentChildCoarse Version = "parent-child-coarse"
)

// Versions lists every valid version token, in release order.
func Versions() []Version {
	return []Version{VersionNaive, VersionParentChildFine, VersionParentChildCoarse}
}

// ParseVersion validates a version token drawn from user input.
func ParseVersion(s string) (Version, error) {
	switch Version(s) {
	case VersionNaive, VersionParentChildFine, VersionParentChildCoarse:
		return Version(s), nil
	default:
		return "", fmt.Errorf("%w: %q (valid: %v)", ErrUnsupportedVersion, s, Versions())
	}
}

// FactoryConfig carries the shared settings injected into every strategy
// constructor. One instance is built at startup and passed by reference so
// strategies running in the same process never couple through hidden
// process-wide state.
type FactoryConfig struct {
	// OversampleMultiplier scales top-k into the diversity retriever's
	// candidate pool. 0 uses the default.
	OversampleMultiplier int
}

// NewStrategy maps a version token to a configured Strategy over the given
// backend. Unknown tokens fail with ErrUnsupportedVersion before any
// retrieval begins.
func NewStrategy(version Version, backend rag.SearchBackend, cfg *FactoryConfig) (Strategy, error) {
	if cfg == nil {
		cfg = &FactoryConfig{}
	}

	switch version {
	case VersionNaive:
		return NewNaiveStrategy(backend)
	case VersionParentChildFine, VersionParentChildCoarse:
		return NewParentChildStrategy(backend, version, cfg.OversampleMultiplier)
	default:
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnsupportedVersion, version, Versions())
	}
}
