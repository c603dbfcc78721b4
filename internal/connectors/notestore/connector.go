package notestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.SourceAdapter = (*Connector)(nil)

// DBName is the file name of the Notes database.
const DBName = "NoteStore.sqlite"

// AccessHint tells the user how to fix a permission failure.
const AccessHint = "Grant Full Disk Access to your terminal in " +
	"System Settings > Privacy & Security > Full Disk Access, then run the command again."

// coreDataEpoch is the reference date of Core Data timestamps.
var coreDataEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// siblingSuffixes are the SQLite journal files copied with the database.
var siblingSuffixes = []string{"-wal", "-shm"}

const notesQuery = `
	SELECT
		note.ZTITLE,
		note.ZDISPLAYTEXT,
		note.ZSTANDARDIZEDCONTENT,
		note.ZSNIPPET,
		note.ZMODIFICATIONDATE,
		%s
	FROM ZICCLOUDSYNCINGOBJECT note
	WHERE note.ZTITLE IS NOT NULL
		AND COALESCE(note.ZMARKEDFORDELETION, 0) = 0
		AND (
			note.ZDISPLAYTEXT IS NOT NULL
			OR note.ZSTANDARDIZEDCONTENT IS NOT NULL
			OR note.ZSNIPPET IS NOT NULL
		)
	ORDER BY note.ZMODIFICATIONDATE DESC
`

// Connector reads notes from a snapshot of NoteStore.sqlite.
type Connector struct {
	dbPath string

	// tempRoot is where snapshots are created. Empty means os.TempDir().
	tempRoot string
}

// New creates a connector. An empty cfg.DBPath uses the default location
// under home.
func New(cfg domain.NotesConfig, home string) *Connector {
	path := cfg.DBPath
	if path == "" {
		path = DefaultPath(home)
	}
	return &Connector{dbPath: path}
}

// DefaultPath returns the standard location of the Notes database.
func DefaultPath(home string) string {
	return filepath.Join(home, "Library", "Group Containers", "group.com.apple.notes", DBName)
}

// Name returns the source name.
func (c *Connector) Name() string {
	return domain.SourceNotes
}

// DBPath returns the database the connector reads.
func (c *Connector) DBPath() string {
	return c.dbPath
}

// Extract reads every live note with a title and some content.
func (c *Connector) Extract(ctx context.Context) (domain.Extraction, error) {
	var out domain.Extraction

	snapshot, cleanup, err := c.snapshot()
	if err != nil {
		return out, err
	}
	defer cleanup()

	db, err := sql.Open("sqlite", "file:"+snapshot+"?mode=ro")
	if err != nil {
		return out, c.sourceError(domain.FailureIO, fmt.Errorf("open snapshot: %w", err))
	}
	defer db.Close()

	created := "NULL"
	hasCreated, err := hasColumn(ctx, db, "ZICCLOUDSYNCINGOBJECT", "ZCREATIONDATE")
	if err != nil {
		return out, c.queryError(ctx, err)
	}
	if hasCreated {
		created = "note.ZCREATIONDATE"
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(notesQuery, created))
	if err != nil {
		return out, c.queryError(ctx, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r noteRow
		if err := rows.Scan(&r.title, &r.displayText, &r.standardized, &r.snippet, &r.modified, &r.created); err != nil {
			return domain.Extraction{}, c.queryError(ctx, err)
		}
		doc, ok := r.document()
		if !ok {
			logger.Debug("Skipping note without title or content")
			continue
		}
		out.Documents = append(out.Documents, doc)
	}
	if err := rows.Err(); err != nil {
		return domain.Extraction{}, c.queryError(ctx, err)
	}

	logger.Debug("Apple Notes: %d usable notes", len(out.Documents))
	return out, nil
}

// snapshot copies the database and its journal files into a new temporary
// directory. The returned cleanup removes the directory and ignores errors.
func (c *Connector) snapshot() (string, func(), error) {
	if _, err := os.Stat(c.dbPath); err != nil {
		return "", nil, c.classify(err)
	}

	root := c.tempRoot
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "noteqa-notes-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", nil, c.sourceError(domain.FailureIO, fmt.Errorf("create snapshot directory: %w", err))
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Debug("Removing snapshot %s: %v", dir, err)
		}
	}

	dst := filepath.Join(dir, DBName)
	if err := copyFile(c.dbPath, dst); err != nil {
		cleanup()
		return "", nil, c.classify(err)
	}

	for _, suffix := range siblingSuffixes {
		err := copyFile(c.dbPath+suffix, dst+suffix)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		cleanup()
		return "", nil, c.classify(err)
	}

	return dst, cleanup, nil
}

// classify maps a filesystem error on the database to a SourceError.
func (c *Connector) classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c.sourceError(domain.FailureNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		se := c.sourceError(domain.FailureAccessDenied, err)
		se.Hint = AccessHint
		return se
	default:
		return c.sourceError(domain.FailureIO, err)
	}
}

func (c *Connector) queryError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return c.sourceError(domain.FailureIO, fmt.Errorf("query notes: %w", err))
}

func (c *Connector) sourceError(kind domain.FailureKind, err error) *domain.SourceError {
	return domain.NewSourceError(c.Name(), kind, err)
}

// noteRow is one row of the notes query.
type noteRow struct {
	title        sql.NullString
	displayText  sql.NullString
	standardized sql.NullString
	snippet      sql.NullString
	modified     sql.NullFloat64
	created      sql.NullFloat64
}

// document converts the row. ok is false when the title or all content
// columns are empty.
func (r noteRow) document() (domain.Document, bool) {
	title := strings.TrimSpace(r.title.String)
	if !r.title.Valid || title == "" {
		return domain.Document{}, false
	}
	body := firstNonEmpty(r.displayText, r.standardized, r.snippet)
	if body == "" {
		return domain.Document{}, false
	}

	name := SanitizeTitle(title)
	meta := domain.Metadata{
		Source:   "apple_notes/" + name + ".txt",
		Filename: name + ".txt",
		Title:    title,
	}
	if r.modified.Valid {
		meta.ModifiedAt = domain.FormatTimestamp(CoreDataTime(r.modified.Float64))
	}
	if r.created.Valid {
		meta.CreatedAt = domain.FormatTimestamp(CoreDataTime(r.created.Float64))
	}

	return domain.Document{
		ID:         domain.NamespacedID(domain.SourceNotes, name),
		SourceName: domain.SourceNotes,
		Content:    "# " + title + "\n\n" + body,
		Metadata:   meta,
	}, true
}

// SanitizeTitle makes a note title safe to use as a path segment.
func SanitizeTitle(title string) string {
	return strings.ReplaceAll(title, "/", "_")
}

// CoreDataTime converts seconds since 2001-01-01 UTC to a time.
func CoreDataTime(seconds float64) time.Time {
	return coreDataEpoch.Add(time.Duration(seconds * float64(time.Second)))
}

func firstNonEmpty(values ...sql.NullString) string {
	for _, v := range values {
		if v.Valid && strings.TrimSpace(v.String) != "" {
			return v.String
		}
	}
	return ""
}

func hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
