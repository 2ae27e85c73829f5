package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	domainllm "studyultra/internal/domain/services/llm"
)

// Provider implements CompletionClient with the OpenAI chat completions API.
type Provider struct {
	client *openai.Client
	params domainllm.Params
}

// NewProvider creates an OpenAI provider. baseURL is optional and allows
// OpenAI-compatible gateways.
func NewProvider(apiKey, baseURL string, params domainllm.Params) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(config),
		params: params,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openai"
}

// Complete sends prompt as a single user message.
func (p *Provider) Complete(ctx context.Context, prompt string) (*domainllm.Completion, error) {
	req := openai.ChatCompletionRequest{
		Model: p.params.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.params.Temperature,
		MaxTokens:   p.params.MaxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from OpenAI")
	}

	choice := resp.Choices[0]
	return &domainllm.Completion{
		Text:         choice.Message.Content,
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		StopReason:   string(choice.FinishReason),
	}, nil
}
