package driven

import (
	"context"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// Index stores documents and retrieves the nearest ones for a query.
type Index interface {
	// Upsert inserts or replaces documents by ID. Writing an existing ID
	// replaces its content and metadata; duplicates never accumulate.
	Upsert(ctx context.Context, docs []domain.Document) error

	// Query returns at most topK documents ordered by relevance.
	Query(ctx context.Context, text string, topK int) ([]domain.RetrievedDocument, error)

	// Get returns a stored document by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes documents by ID. Unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
