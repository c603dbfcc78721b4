package driving

import (
	"context"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// Indexer brings the index up to date with the note sources.
type Indexer interface {
	// Index runs one incremental indexing pass.
	Index(ctx context.Context, opts IndexOptions) (domain.IndexReport, error)

	// Status reports the size of the index and the change tracker.
	Status(ctx context.Context) (*IndexStatus, error)
}

// IndexOptions narrows an indexing run.
type IndexOptions struct {
	// Sources limits the run to the named sources. Empty means all enabled sources.
	Sources []string

	// Prune removes indexed documents their source no longer produces.
	Prune bool
}

// IndexStatus describes the persisted indexing state.
type IndexStatus struct {
	// Documents is the number of documents in the index.
	Documents int

	// Tracked is the number of fingerprints in the change tracker.
	Tracked int

	// PerSource counts tracked fingerprints by source name.
	PerSource map[string]int
}
