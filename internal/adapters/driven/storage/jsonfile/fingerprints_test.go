package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

func TestFingerprintStore_LoadMissingFile(t *testing.T) {
	store := NewFingerprintStore(filepath.Join(t.TempDir(), "processed_files.json"))

	fingerprints, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fingerprints)
	assert.NotNil(t, fingerprints)
}

func TestFingerprintStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "processed_files.json")
	store := NewFingerprintStore(path)
	want := domain.Fingerprints{
		"vault:travel/Trip.md": "2024-03-01T10:00:00Z",
		"notes:Idea":           "2024-03-02T11:30:00.5Z",
	}

	require.NoError(t, store.Save(context.Background(), want))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFingerprintStore_SaveReplacesWholeMap(t *testing.T) {
	store := NewFingerprintStore(filepath.Join(t.TempDir(), "fp.json"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Fingerprints{"a": "1", "b": "1"}))
	require.NoError(t, store.Save(ctx, domain.Fingerprints{"a": "2"}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Fingerprints{"a": "2"}, got)
}

func TestFingerprintStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFingerprintStore(filepath.Join(dir, "fp.json"))

	require.NoError(t, store.Save(context.Background(), domain.Fingerprints{"a": "1"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), tempPrefix), "leftover temp file %s", e.Name())
	}
	assert.Len(t, entries, 1)
}

func TestFingerprintStore_CorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"vault:a.md": "2024`},
		{"wrong type", `["not", "an", "object"]`},
		{"garbage", "not json at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fp.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			fingerprints, err := NewFingerprintStore(path).Load(context.Background())
			require.Error(t, err)

			assert.ErrorIs(t, err, domain.ErrParseFailure)
			kind, ok := domain.KindOf(err)
			assert.True(t, ok)
			assert.Equal(t, domain.FailureParse, kind)
			assert.Empty(t, fingerprints)
		})
	}
}

func TestFingerprintStore_NullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fp.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o600))

	fingerprints, err := NewFingerprintStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, fingerprints)
}
