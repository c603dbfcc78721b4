package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/noteqa/internal/logger"
)

// DefaultDebounce is the quiet period Watch waits for before signalling.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("vault: connector closed")

// Watch signals when matching notes are created, written, removed or renamed.
// Events arriving within debounce of each other produce a single signal.
// The channel is closed when ctx is done or the connector is closed.
func (c *Connector) Watch(ctx context.Context, debounce time.Duration) (<-chan struct{}, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	if err := c.checkRoot(); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := c.addRecursive(watcher, c.root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	c.mu.Lock()
	c.watchers = append(c.watchers, watcher)
	c.mu.Unlock()

	signals := make(chan struct{}, 1)
	go c.watchLoop(ctx, watcher, debounce, signals)
	return signals, nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, signals chan<- struct{}) {
	defer close(signals)
	defer watcher.Close()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if c.handleEvent(watcher, event) {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Vault watcher error: %v", err)

		case <-timer.C:
			select {
			case signals <- struct{}{}:
			default:
			}
		}
	}
}

// handleEvent reports whether the event touched a note.
// New directories are added to the watch list.
func (c *Connector) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	rel, err := c.relative(event.Name)
	if err != nil {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !c.excluded(rel) {
				if err := c.addRecursive(watcher, event.Name); err != nil {
					logger.Warn("Cannot watch %s: %v", rel, err)
				}
			}
			return false
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !c.Matches(rel) {
		return false
	}

	logger.Debug("Vault change: %s %s", event.Op, rel)
	return true
}

// addRecursive watches dir and every non-excluded directory below it.
func (c *Connector) addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != c.root {
			if rel, relErr := c.relative(path); relErr == nil && c.excluded(rel) {
				return filepath.SkipDir
			}
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
