package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ollamaembed "github.com/custodia-labs/noteqa/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/custodia-labs/noteqa/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/noteqa/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
	assert.Equal(t, pingTimeout, validator.timeout)
}

func TestConfigValidator_Reachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	validator := NewConfigValidator()
	ctx := context.Background()

	assert.NoError(t, validator.ValidateEmbedding(ctx, ollamaembed.NewEmbeddingService(ollamaembed.Config{BaseURL: server.URL})))
	assert.NoError(t, validator.ValidateLLM(ctx, ollamallm.NewLLMService(ollamallm.LLMConfig{BaseURL: server.URL})))
}

func TestConfigValidator_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	validator := NewConfigValidator()
	ctx := context.Background()

	err := validator.ValidateEmbedding(ctx, ollamaembed.NewEmbeddingService(ollamaembed.Config{BaseURL: server.URL}))
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	err = validator.ValidateLLM(ctx, ollamallm.NewLLMService(ollamallm.LLMConfig{BaseURL: server.URL}))
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
