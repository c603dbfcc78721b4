// Package jsonfile persists the change-tracker fingerprints as a JSON object
// mapping document IDs to timestamps.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
)

// Ensure FingerprintStore implements the interface.
var _ driven.FingerprintStore = (*FingerprintStore)(nil)

// storeName identifies the store in SourceErrors.
const storeName = "fingerprints"

// tempPrefix names in-flight writes next to the target file.
const tempPrefix = ".noteqa-tmp-"

// FingerprintStore reads and rewrites a single JSON file.
type FingerprintStore struct {
	path string
}

// NewFingerprintStore creates a store backed by the file at path.
// The file and its directory are created on first Save.
func NewFingerprintStore(path string) *FingerprintStore {
	return &FingerprintStore{path: path}
}

// Path returns the backing file path.
func (s *FingerprintStore) Path() string {
	return s.path
}

// Load reads the whole map. A missing file yields an empty map.
func (s *FingerprintStore) Load(_ context.Context) (domain.Fingerprints, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Fingerprints{}, nil
	}
	if err != nil {
		kind := domain.FailureIO
		if errors.Is(err, fs.ErrPermission) {
			kind = domain.FailureAccessDenied
		}
		return domain.Fingerprints{}, domain.NewSourceError(storeName, kind, err)
	}

	fingerprints := domain.Fingerprints{}
	if err := json.Unmarshal(data, &fingerprints); err != nil {
		return domain.Fingerprints{}, domain.NewSourceError(storeName, domain.FailureParse,
			fmt.Errorf("%s: %w", s.path, err))
	}
	if fingerprints == nil {
		fingerprints = domain.Fingerprints{}
	}
	return fingerprints, nil
}

// Save replaces the file atomically.
func (s *FingerprintStore) Save(_ context.Context, fingerprints domain.Fingerprints) error {
	if fingerprints == nil {
		fingerprints = domain.Fingerprints{}
	}
	data, err := json.MarshalIndent(fingerprints, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fingerprints: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create fingerprint directory: %w", err)
	}
	return writeFileAtomic(s.path, data, 0o600)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}
	return nil
}
