package llm

import (
	"fmt"

	"studyultra/internal/config"
	domainllm "studyultra/internal/domain/services/llm"
	"studyultra/internal/service/llm/providers/anthropic"
	"studyultra/internal/service/llm/providers/lorem"
	"studyultra/internal/service/llm/providers/openai"
)

// ProviderFactory creates completion clients from configuration.
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{config: cfg}
}

// GetProvider returns a client for the given provider name.
//
// Supported providers:
//   - "openai" - GPT models via the OpenAI API (or a compatible base URL)
//   - "anthropic" - Claude models via the Anthropic API
//   - "lorem" - Mock provider for development (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.CompletionClient, error) {
	switch providerName {
	case config.ProviderOpenAI:
		return f.createOpenAIProvider()
	case config.ProviderAnthropic:
		return f.createAnthropicProvider()
	case config.ProviderLorem:
		params, err := f.params(config.ProviderLorem, f.config.CompletionModel)
		if err != nil {
			return nil, err
		}
		return lorem.NewProvider(params, 0), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func (f *ProviderFactory) createOpenAIProvider() (domainllm.CompletionClient, error) {
	if f.config.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	params, err := f.params(config.ProviderOpenAI, f.config.CompletionModel)
	if err != nil {
		return nil, err
	}
	provider, err := openai.NewProvider(f.config.OpenAIAPIKey, f.config.OpenAIBaseURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI provider: %w", err)
	}
	return provider, nil
}

func (f *ProviderFactory) createAnthropicProvider() (domainllm.CompletionClient, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}
	params, err := f.params(config.ProviderAnthropic, f.config.AnthropicModel)
	if err != nil {
		return nil, err
	}
	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}
	return provider, nil
}

func (f *ProviderFactory) params(provider, modelStr string) (domainllm.Params, error) {
	model, err := ResolveModel(provider, modelStr, f.config.OpenAIBaseURL != "")
	if err != nil {
		return domainllm.Params{}, err
	}
	return domainllm.Params{
		Model:       model,
		Temperature: f.config.CompletionTemperature,
		MaxTokens:   f.config.CompletionMaxTokens,
	}, nil
}
