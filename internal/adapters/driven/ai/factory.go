// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"
	"time"

	"github.com/custodia-labs/noteqa/internal/adapters/driven/embedding/cache"
	ollamaembed "github.com/custodia-labs/noteqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/noteqa/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/noteqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/noteqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
	"github.com/custodia-labs/noteqa/internal/logger"
)

// InitResult contains the AI services built from configuration.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds the embedding service, wrapped in the on-disk cache when
// enabled, and the LLM service.
func Init(cfg domain.Config) (*InitResult, error) {
	timeout := cfg.Query.Timeout()

	embedder, err := CreateEmbeddingService(cfg.Embedding, timeout)
	if err != nil {
		return nil, err
	}

	if cfg.Embedding.Cache {
		boltCache, err := cache.NewBoltCache(cfg.Data.CachePath())
		if err != nil {
			// A locked or unreadable cache only costs extra API calls.
			logger.Warn("Embedding cache disabled: %v", err)
		} else {
			embedder = cache.NewCachedEmbedder(embedder, boltCache)
		}
	}

	llm, err := CreateLLMService(cfg.LLM, timeout)
	if err != nil {
		embedder.Close()
		return nil, err
	}

	return &InitResult{EmbeddingService: embedder, LLMService: llm}, nil
}

// CreateEmbeddingService creates the embedding service for the configured provider.
func CreateEmbeddingService(cfg domain.EmbeddingConfig, timeout time.Duration) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Timeout:           timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            cfg.APIKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Timeout:           timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
		if err != nil {
			return nil, fmt.Errorf("%w. Set OPENAI_API_KEY or embedding.api_key", err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, cfg.Provider)
	}
}

// CreateLLMService creates the chat model service for the configured provider.
func CreateLLMService(cfg domain.LLMConfig, timeout time.Duration) (driven.LLMService, error) {
	switch cfg.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("%w. Set OPENAI_API_KEY or llm.api_key", err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: llm provider %q", domain.ErrUnsupportedType, cfg.Provider)
	}
}
