// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters):
//
//   - IndexingPipeline: incremental, idempotent indexing of note sources
//   - ChangeTracker: fingerprint bookkeeping for the pipeline
//   - AssembleContext: deterministic formatting of retrieved documents
//   - ConversationSession: bounded conversation history
//   - QueryOrchestrator: retrieval, generation and history per question
//
// Services are pure Go with no CGO or external dependencies.
package services
