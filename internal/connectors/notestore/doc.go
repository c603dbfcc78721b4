// Package notestore implements a source adapter for the Apple Notes database.
//
// Notes keeps its data in a Core Data SQLite file, NoteStore.sqlite, inside
// the group.com.apple.notes container. The live database is locked by the
// Notes app and protected by macOS privacy controls, so the adapter works on
// a private snapshot: the database and its -wal/-shm siblings are copied to
// a fresh temporary directory, read, and removed again.
//
// # Permissions
//
// Reading the container requires Full Disk Access for the terminal (or the
// binary). Without it the copy fails with a permission error, which is
// reported as [domain.FailureAccessDenied] with instructions for the user.
//
// # Document Structure
//
// Each note becomes a document with ID "notes:{title}" and source
// "apple_notes/{title}.txt", where "/" in the title is replaced by "_".
// Content is "# {title}\n\n{body}". The body is the first non-empty of the
// display text, the standardised content and the snippet.
//
// Core Data stores dates as seconds since 2001-01-01 UTC; they are
// converted to the shared timestamp format.
package notestore
