package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.SourceAdapter = (*Connector)(nil)

// Default patterns applied when the configuration leaves them empty.
var (
	DefaultInclude = []string{"**/*.md"}
	DefaultExclude = []string{".obsidian/**", ".trash/**"}
)

// Connector reads notes from a vault directory.
type Connector struct {
	root    string
	include []string
	exclude []string

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// New creates a vault connector from its configuration.
func New(cfg domain.VaultConfig) (*Connector, error) {
	include := cfg.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	exclude := cfg.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}

	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: invalid vault pattern %q", domain.ErrInvalidInput, p)
		}
	}

	return &Connector{
		root:    cfg.Path,
		include: include,
		exclude: exclude,
	}, nil
}

// Name returns the source name.
func (c *Connector) Name() string {
	return domain.SourceVault
}

// Root returns the vault directory.
func (c *Connector) Root() string {
	return c.root
}

// Extract reads every matching note in the vault.
func (c *Connector) Extract(ctx context.Context) (domain.Extraction, error) {
	var out domain.Extraction

	if err := c.checkRoot(); err != nil {
		return out, err
	}

	walkErr := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := c.relative(path)
		if relErr != nil {
			return relErr
		}

		if err != nil {
			if path == c.root {
				return err
			}
			out.Skipped = append(out.Skipped, domain.ItemFailure{Item: rel, Kind: domain.FailureIO, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != c.root && c.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !c.Matches(rel) {
			return nil
		}

		doc, ok, err := c.readNote(path, rel)
		if err != nil {
			logger.Warn("Skipping %s: %v", rel, err)
			out.Skipped = append(out.Skipped, domain.ItemFailure{Item: rel, Kind: domain.FailureIO, Err: err})
			return nil
		}
		if ok {
			out.Documents = append(out.Documents, doc)
		}
		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Extraction{}, ctxErr
		}
		return domain.Extraction{}, domain.NewSourceError(c.Name(), domain.FailureIO, walkErr)
	}

	logger.Debug("Vault %s: %d notes, %d skipped", c.root, len(out.Documents), len(out.Skipped))
	return out, nil
}

// Matches reports whether a vault-relative slash path is a note.
func (c *Connector) Matches(rel string) bool {
	if c.excluded(rel) {
		return false
	}
	for _, p := range c.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Close stops any watcher started by Watch. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for _, w := range c.watchers {
		errs = append(errs, w.Close())
	}
	c.watchers = nil
	return errors.Join(errs...)
}

func (c *Connector) excluded(rel string) bool {
	for _, p := range c.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// checkRoot maps a missing or unreadable vault root to a SourceError.
func (c *Connector) checkRoot() error {
	if c.root == "" {
		return domain.NewSourceError(c.Name(), domain.FailureNotFound, errors.New("vault path is not configured"))
	}

	info, err := os.Stat(c.root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return domain.NewSourceError(c.Name(), domain.FailureNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		se := domain.NewSourceError(c.Name(), domain.FailureAccessDenied, err)
		se.Hint = fmt.Sprintf("Check that %s is readable by the current user.", c.root)
		return se
	case err != nil:
		return domain.NewSourceError(c.Name(), domain.FailureIO, err)
	case !info.IsDir():
		return domain.NewSourceError(c.Name(), domain.FailureNotFound, fmt.Errorf("%s is not a directory", c.root))
	}
	return nil
}

// readNote builds the document for one file. ok is false for empty files.
func (c *Connector) readNote(path, rel string) (domain.Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, false, err
	}
	if len(data) == 0 {
		logger.Debug("Skipping empty note %s", rel)
		return domain.Document{}, false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.Document{}, false, err
	}

	meta := domain.Metadata{
		Source:     rel,
		CreatedAt:  domain.FormatTimestamp(createdTime(info)),
		ModifiedAt: domain.FormatTimestamp(info.ModTime()),
		Filename:   filepath.Base(path),
	}

	fm, err := parseFrontmatter(data)
	if err != nil {
		logger.Warn("%s: %v", rel, domain.NewSourceError(c.Name(), domain.FailureParse, err))
	}
	applyFrontmatter(&meta, fm)

	return domain.Document{
		ID:         domain.NamespacedID(c.Name(), rel),
		SourceName: c.Name(),
		Content:    string(data),
		Metadata:   meta,
	}, true, nil
}

// relative returns the slash-separated path of path under the root.
func (c *Connector) relative(path string) (string, error) {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
