// Package vault implements a source adapter for a markdown notes vault.
//
// The vault is a directory tree of markdown files. Every file matching the
// include patterns (and none of the exclude patterns) becomes one document.
// Patterns use doublestar syntax and are matched against the slash-separated
// path relative to the vault root.
//
// # Frontmatter
//
// A file may start with a YAML block delimited by "---" lines. Recognised
// keys (tags, title, date, category, aliases) are copied into the document
// metadata; everything else is dropped. A scalar tags or aliases value is
// stored as a one-element list. Malformed YAML is logged and ignored.
//
// # Document Structure
//
// Documents are emitted with IDs of the form "vault:{relative path}". The
// indexed content is the full file text, frontmatter included. The
// modification time is the change fingerprint.
//
// # Watching
//
// [Connector.Watch] reports bursts of filesystem activity on matching files
// as single signals, for callers that re-index on change.
package vault
