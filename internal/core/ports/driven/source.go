package driven

import (
	"context"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// SourceAdapter converts a raw note source into normalised documents.
// Adapters never touch the index or the change tracker.
type SourceAdapter interface {
	// Name returns the source name, also used as the document ID namespace.
	Name() string

	// Extract reads every note in the source.
	// Per-item problems are reported in Extraction.Skipped; a returned error
	// is a *domain.SourceError and means the source produced nothing.
	Extract(ctx context.Context) (domain.Extraction, error)
}
