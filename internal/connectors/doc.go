// Package connectors holds the note sources. Each subpackage implements
// driven.SourceAdapter for one source and produces normalised documents
// under its own ID namespace:
//
//   - vault: an Obsidian vault of markdown files with YAML frontmatter
//   - notestore: the Apple Notes SQLite database, read from a snapshot
package connectors
