// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceAdapter: Turns a note source into normalised documents
//   - FingerprintStore: Persists change-detection state
//   - Index: Idempotent document storage with similarity retrieval
//   - EmbeddingService: Turns text into vectors for the index
//   - LLMService: Chat completion for answering questions
//
// # Optional Interfaces
//
//   - EmbeddingCache: Skips re-embedding text that was embedded before
//   - PromptStore: User-editable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or driving package
package driven
