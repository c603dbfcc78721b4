package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

func TestFingerprintStore(t *testing.T) {
	ctx := context.Background()

	t.Run("nil seed loads empty", func(t *testing.T) {
		loaded, err := NewFingerprintStore(nil).Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("seed is copied", func(t *testing.T) {
		seed := domain.Fingerprints{"vault:a.md": "t1"}
		store := NewFingerprintStore(seed)
		seed["vault:a.md"] = "changed"

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "t1", loaded["vault:a.md"])
	})

	t.Run("save replaces and isolates", func(t *testing.T) {
		store := NewFingerprintStore(domain.Fingerprints{"old": "t0"})
		saved := domain.Fingerprints{"vault:b.md": "t2"}
		require.NoError(t, store.Save(ctx, saved))
		saved["vault:b.md"] = "mutated"

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Fingerprints{"vault:b.md": "t2"}, loaded)

		loaded["extra"] = "x"
		again, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, again, 1)
	})
}
