package driven

import (
	"context"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// FingerprintStore persists the change-detection map.
// The whole map is loaded at run start and rewritten at run end.
type FingerprintStore interface {
	// Load returns the persisted map. A missing store yields an empty map
	// and no error. A corrupt store yields an empty map and a
	// *domain.SourceError with kind FailureParse.
	Load(ctx context.Context) (domain.Fingerprints, error)

	// Save replaces the persisted map.
	Save(ctx context.Context, fingerprints domain.Fingerprints) error
}
