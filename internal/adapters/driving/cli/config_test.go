package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// memoryConfigStore is a ConfigStore over a fixed path.
type memoryConfigStore struct {
	path  string
	cfg   domain.Config
	saved *domain.Config
}

func (m *memoryConfigStore) Load() (domain.Config, error) { return m.cfg, nil }
func (m *memoryConfigStore) Path() string                 { return m.path }

func (m *memoryConfigStore) Save(cfg domain.Config) error {
	m.saved = &cfg
	return os.WriteFile(m.path, []byte("saved"), 0600)
}

func setupConfigStore(t *testing.T) *memoryConfigStore {
	t.Helper()
	store := &memoryConfigStore{
		path: filepath.Join(t.TempDir(), "config.toml"),
		cfg:  domain.DefaultConfig("/home/test"),
	}
	SetConfigStore(func(string) (ConfigStore, error) {
		return store, nil
	})
	t.Cleanup(func() { SetConfigStore(nil) })
	return store
}

func TestConfigPathCmd(t *testing.T) {
	store := setupConfigStore(t)

	out, err := execute(t, "config", "path")

	require.NoError(t, err)
	assert.Equal(t, store.path+"\n", out)
}

func TestConfigShowCmd_MasksKeys(t *testing.T) {
	store := setupConfigStore(t)
	store.cfg.Embedding.APIKey = "sk-secret-abcd"
	store.cfg.LLM.APIKey = "sk-secret-abcd"

	out, err := execute(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "# "+store.path)
	assert.Contains(t, out, "text-embedding-3-small")
	assert.Contains(t, out, "****abcd")
	assert.NotContains(t, out, "sk-secret")
}

func TestConfigInitCmd(t *testing.T) {
	t.Run("writes defaults", func(t *testing.T) {
		store := setupConfigStore(t)

		out, err := execute(t, "config", "init")

		require.NoError(t, err)
		assert.Contains(t, out, "Wrote "+store.path)
		require.NotNil(t, store.saved)
		assert.Equal(t, 8, store.saved.Query.MaxChunks)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		store := setupConfigStore(t)
		require.NoError(t, os.WriteFile(store.path, []byte("existing"), 0600))

		_, err := execute(t, "config", "init")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
		assert.Nil(t, store.saved)
	})

	t.Run("force overwrites", func(t *testing.T) {
		store := setupConfigStore(t)
		require.NoError(t, os.WriteFile(store.path, []byte("existing"), 0600))

		_, err := execute(t, "config", "init", "--force")

		require.NoError(t, err)
		assert.NotNil(t, store.saved)
	})
}

func TestConfigCmd_NotConfigured(t *testing.T) {
	SetConfigStore(nil)

	_, err := execute(t, "config", "path")

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abc"))
	assert.Equal(t, "****wxyz", maskSecret("sk-abcdwxyz"))
}
