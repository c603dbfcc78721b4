// Package sqlite provides the SQLite-backed vector index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each document row holds its content,
// metadata as JSON and its embedding as a little-endian float32 blob.
//
// Embeddings are computed at upsert time through a [driven.EmbeddingService].
// Queries embed the question with the same service and rank every stored
// document by cosine similarity. Personal note collections are small enough
// that a full scan stays well under the latency of the embedding call itself.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration records its own version in
// schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.noteqa/data/index.db
package sqlite
