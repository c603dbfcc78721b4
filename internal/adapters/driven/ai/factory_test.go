package ai

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/noteqa/internal/adapters/driven/embedding/cache"
	"github.com/custodia-labs/noteqa/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.EmbeddingConfig
		wantErr error
		model   string
	}{
		{
			name:  "ollama provider creates service",
			cfg:   domain.EmbeddingConfig{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"},
			model: "nomic-embed-text",
		},
		{
			name:  "openai provider creates service",
			cfg:   domain.EmbeddingConfig{Provider: domain.AIProviderOpenAI, APIKey: "test-key"},
			model: "text-embedding-3-small",
		},
		{
			name:    "openai without key is unavailable",
			cfg:     domain.EmbeddingConfig{Provider: domain.AIProviderOpenAI},
			wantErr: domain.ErrEmbeddingUnavailable,
		},
		{
			name:    "unknown provider",
			cfg:     domain.EmbeddingConfig{Provider: "anthropic"},
			wantErr: domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.cfg, time.Second)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.model, svc.ModelName())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.LLMConfig
		wantErr error
		model   string
	}{
		{
			name:  "ollama provider creates service",
			cfg:   domain.LLMConfig{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			model: "llama3.2",
		},
		{
			name:  "openai provider creates service",
			cfg:   domain.LLMConfig{Provider: domain.AIProviderOpenAI, APIKey: "test-key", Model: "gpt-4o"},
			model: "gpt-4o",
		},
		{
			name:    "openai without key is unavailable",
			cfg:     domain.LLMConfig{Provider: domain.AIProviderOpenAI},
			wantErr: domain.ErrLLMUnavailable,
		},
		{
			name:    "unknown provider",
			cfg:     domain.LLMConfig{Provider: "bogus"},
			wantErr: domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.cfg, time.Second)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.model, svc.ModelName())
		})
	}
}

func TestInit(t *testing.T) {
	cfg := domain.DefaultConfig(t.TempDir())
	cfg.Data.Dir = filepath.Join(t.TempDir(), "data")
	cfg.Embedding.APIKey = "test-key"
	cfg.LLM.APIKey = "test-key"

	t.Run("cache wraps the embedder", func(t *testing.T) {
		result, err := Init(cfg)
		require.NoError(t, err)
		defer result.Close()

		assert.IsType(t, &cache.CachedEmbedder{}, result.EmbeddingService)
		assert.FileExists(t, cfg.Data.CachePath())
		assert.Equal(t, "gpt-4o-mini", result.LLMService.ModelName())
	})

	t.Run("cache disabled", func(t *testing.T) {
		noCache := cfg
		noCache.Embedding.Cache = false

		result, err := Init(noCache)
		require.NoError(t, err)
		defer result.Close()

		_, cached := result.EmbeddingService.(*cache.CachedEmbedder)
		assert.False(t, cached)
	})

	t.Run("missing llm key", func(t *testing.T) {
		noKey := cfg
		noKey.Embedding.Cache = false
		noKey.LLM.APIKey = ""

		_, err := Init(noKey)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}
