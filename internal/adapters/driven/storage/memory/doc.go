// Package memory provides in-memory implementations of the storage ports.
// They back `index --dry-run` and are convenient in tests; nothing is persisted.
package memory
