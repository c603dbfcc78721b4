package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// EmbeddingCache remembers embeddings by model and text.
type EmbeddingCache interface {
	// Get returns a cached vector and whether it was found.
	Get(model, text string) ([]float32, bool, error)

	// Put stores a vector.
	Put(model, text string, vector []float32) error

	// Close releases resources.
	Close() error
}
