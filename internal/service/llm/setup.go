package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"studyultra/internal/config"
	"studyultra/internal/domain"
	domainllm "studyultra/internal/domain/services/llm"
)

// SetupCompletionClient creates the configured provider and wraps it so
// every failure surfaces as a *domain.CompletionError.
func SetupCompletionClient(cfg *config.Config, logger *zap.Logger) (domainllm.CompletionClient, error) {
	provider, err := NewProviderFactory(cfg).GetProvider(cfg.CompletionProvider)
	if err != nil {
		return nil, err
	}
	logger.Info("completion provider initialized",
		zap.String("provider", provider.Name()),
		zap.Float32("temperature", cfg.CompletionTemperature),
		zap.Int("max_tokens", cfg.CompletionMaxTokens))
	return NewClient(provider, logger), nil
}

// Client decorates a provider with error classification and logging.
// It never retries.
type Client struct {
	provider domainllm.CompletionClient
	logger   *zap.Logger
}

// NewClient wraps provider.
func NewClient(provider domainllm.CompletionClient, logger *zap.Logger) *Client {
	return &Client{provider: provider, logger: logger}
}

// Name returns the wrapped provider's name.
func (c *Client) Name() string {
	return c.provider.Name()
}

// Complete implements CompletionClient.
func (c *Client) Complete(ctx context.Context, prompt string) (*domainllm.Completion, error) {
	start := time.Now()
	completion, err := c.provider.Complete(ctx, prompt)
	if err == nil && completion == nil {
		err = fmt.Errorf("provider returned no completion")
	}
	if err != nil {
		c.logger.Warn("completion failed",
			zap.String("provider", c.provider.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, &domain.CompletionError{Provider: c.provider.Name(), Err: err}
	}

	c.logger.Debug("completion finished",
		zap.String("provider", c.provider.Name()),
		zap.String("model", completion.Model),
		zap.Int("input_tokens", completion.InputTokens),
		zap.Int("output_tokens", completion.OutputTokens),
		zap.String("stop_reason", completion.StopReason),
		zap.Duration("elapsed", time.Since(start)))
	return completion, nil
}
