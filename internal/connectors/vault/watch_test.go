package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 50 * time.Millisecond

func waitSignal(t *testing.T, signals <-chan struct{}) {
	t.Helper()
	select {
	case _, ok := <-signals:
		require.True(t, ok, "signal channel closed unexpectedly")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for vault change signal")
	}
}

func TestConnector_Watch(t *testing.T) {
	t.Run("signals on new note", func(t *testing.T) {
		root := t.TempDir()
		c := newTestConnector(t, root)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		signals, err := c.Watch(ctx, testDebounce)
		require.NoError(t, err)

		writeNote(t, root, "new.md", "content")
		waitSignal(t, signals)
	})

	t.Run("signals on modification in new subdirectory", func(t *testing.T) {
		root := t.TempDir()
		c := newTestConnector(t, root)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		signals, err := c.Watch(ctx, testDebounce)
		require.NoError(t, err)

		require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
		time.Sleep(testDebounce)
		writeNote(t, root, "sub/note.md", "content")
		waitSignal(t, signals)
	})

	t.Run("burst collapses into one signal", func(t *testing.T) {
		root := t.TempDir()
		c := newTestConnector(t, root)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		signals, err := c.Watch(ctx, 4*testDebounce)
		require.NoError(t, err)

		for _, name := range []string{"a.md", "b.md", "c.md"} {
			writeNote(t, root, name, "x")
		}
		waitSignal(t, signals)

		select {
		case <-signals:
			t.Fatal("expected a single signal for the burst")
		case <-time.After(8 * testDebounce):
		}
	})

	t.Run("ignores non-note files", func(t *testing.T) {
		root := t.TempDir()
		c := newTestConnector(t, root)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		signals, err := c.Watch(ctx, testDebounce)
		require.NoError(t, err)

		writeNote(t, root, "image.png", "binary")

		select {
		case <-signals:
			t.Fatal("unexpected signal for non-note file")
		case <-time.After(4 * testDebounce):
		}
	})

	t.Run("returns error for missing root", func(t *testing.T) {
		c := newTestConnector(t, filepath.Join(t.TempDir(), "missing"))

		signals, err := c.Watch(context.Background(), testDebounce)
		assert.Error(t, err)
		assert.Nil(t, signals)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		c := newTestConnector(t, t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())

		signals, err := c.Watch(ctx, testDebounce)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-signals:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("returns error when connector is closed", func(t *testing.T) {
		c := newTestConnector(t, t.TempDir())
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())

		_, err := c.Watch(context.Background(), testDebounce)
		assert.ErrorIs(t, err, ErrClosed)
	})
}
