package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	domainllm "studyultra/internal/domain/services/llm"
)

// Provider implements CompletionClient for Anthropic (Claude) models.
type Provider struct {
	client *anthropic.Client
	params domainllm.Params
}

// NewProvider creates a new Anthropic provider with the given API key.
// The SDK's automatic retries are disabled: a failed call fails the
// submission.
func NewProvider(apiKey string, params domainllm.Params, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if !strings.HasPrefix(params.Model, "claude-") {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", params.Model)
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	client := anthropic.NewClient(opts...)

	return &Provider{
		client: &client,
		params: params,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// Complete sends prompt as a single user message and returns the first
// text block of the reply.
func (p *Provider) Complete(ctx context.Context, prompt string) (*domainllm.Completion, error) {
	apiParams := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.params.Model),
		MaxTokens: int64(p.params.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(float64(p.params.Temperature)),
	}

	message, err := p.client.Messages.New(ctx, apiParams)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return &domainllm.Completion{
				Text:         block.Text,
				Model:        string(message.Model),
				InputTokens:  int(message.Usage.InputTokens),
				OutputTokens: int(message.Usage.OutputTokens),
				StopReason:   string(message.StopReason),
			}, nil
		}
	}
	return nil, errors.New("anthropic response has no text content")
}
