package driven

import (
	"context"

	"github.com/custodia-labs/noteqa/internal/core/domain"
)

// LLMService generates the assistant's answer from a conversation.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini) and compatible endpoints
//   - Ollama (local models)
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the reply text.
	Chat(ctx context.Context, messages []domain.Turn, opts ChatOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
