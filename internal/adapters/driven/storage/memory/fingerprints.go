package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
)

// Ensure FingerprintStore implements the interface.
var _ driven.FingerprintStore = (*FingerprintStore)(nil)

// FingerprintStore is an in-memory implementation of driven.FingerprintStore.
type FingerprintStore struct {
	mu   sync.RWMutex
	data domain.Fingerprints
}

// NewFingerprintStore creates a store holding a copy of seed, which may be nil.
func NewFingerprintStore(seed domain.Fingerprints) *FingerprintStore {
	data := make(domain.Fingerprints, len(seed))
	maps.Copy(data, seed)
	return &FingerprintStore{data: data}
}

// Load returns a copy of the stored map.
func (s *FingerprintStore) Load(_ context.Context) (domain.Fingerprints, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.data), nil
}

// Save replaces the stored map with a copy of fingerprints.
func (s *FingerprintStore) Save(_ context.Context, fingerprints domain.Fingerprints) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(domain.Fingerprints, len(fingerprints))
	maps.Copy(s.data, fingerprints)
	return nil
}
