package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/noteqa/internal/core/domain"
	"github.com/custodia-labs/noteqa/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// pinger is implemented by adapters that can check connectivity without
// running inference.
type pinger interface {
	Ping(ctx context.Context) error
}

// ConfigValidator checks that configured AI providers are reachable.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// ValidateEmbedding pings the embedding provider.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if err := v.ping(ctx, svc); err != nil {
		return fmt.Errorf("%w: %s unreachable: %w", domain.ErrEmbeddingUnavailable, svc.ModelName(), err)
	}
	return nil
}

// ValidateLLM pings the chat model provider.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, svc driven.LLMService) error {
	if err := v.ping(ctx, svc); err != nil {
		return fmt.Errorf("%w: %s unreachable: %w", domain.ErrLLMUnavailable, svc.ModelName(), err)
	}
	return nil
}

func (v *ConfigValidator) ping(ctx context.Context, svc any) error {
	p, ok := svc.(pinger)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	return p.Ping(ctx)
}
