package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// ChangeTracker decides which documents need re-indexing.
// It holds the fingerprint map in memory between Load and Save.
type ChangeTracker struct {
	store        driven.FingerprintStore
	fingerprints domain.Fingerprints
}

// NewChangeTracker creates a tracker backed by store.
func NewChangeTracker(store driven.FingerprintStore) *ChangeTracker {
	return &ChangeTracker{
		store:        store,
		fingerprints: domain.Fingerprints{},
	}
}

// Load reads the persisted fingerprints. A corrupt store is logged and
// treated as empty, so every document is re-indexed once.
func (t *ChangeTracker) Load(ctx context.Context) error {
	fingerprints, err := t.store.Load(ctx)
	if err != nil {
		kind, ok := domain.KindOf(err)
		if !ok || kind != domain.FailureParse {
			return fmt.Errorf("load fingerprints: %w", err)
		}
		logger.Warn("Ignoring unreadable fingerprint file, all notes will be re-indexed: %v", err)
		fingerprints = nil
	}
	if fingerprints == nil {
		fingerprints = domain.Fingerprints{}
	}
	t.fingerprints = fingerprints
	return nil
}

// NeedsReindex reports whether the document changed since it was last indexed.
func (t *ChangeTracker) NeedsReindex(id, current string) bool {
	return t.fingerprints.NeedsReindex(id, current)
}

// Known reports whether the document was indexed before.
func (t *ChangeTracker) Known(id string) bool {
	return t.fingerprints.Known(id)
}

// Record marks the document as indexed at the given fingerprint.
func (t *ChangeTracker) Record(id, current string) {
	t.fingerprints.Record(id, current)
}

// Forget drops the document from the tracker.
func (t *ChangeTracker) Forget(id string) {
	t.fingerprints.Forget(id)
}

// IDs returns the tracked IDs for a source, or every tracked ID when
// source is empty.
func (t *ChangeTracker) IDs(source string) []string {
	if source == "" {
		return t.fingerprints.IDs("")
	}
	return t.fingerprints.IDs(source + ":")
}

// Len returns the number of tracked documents.
func (t *ChangeTracker) Len() int {
	return len(t.fingerprints)
}

// Save persists the fingerprints.
func (t *ChangeTracker) Save(ctx context.Context) error {
	if err := t.store.Save(ctx, t.fingerprints); err != nil {
		return fmt.Errorf("save fingerprints: %w", err)
	}
	return nil
}
