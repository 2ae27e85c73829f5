package lorem

import (
	"context"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"

	domainllm "studyultra/internal/domain/services/llm"
)

// Provider is a mock completion provider that answers with lorem ipsum.
// Used for local development without an API key.
type Provider struct {
	generator *loremgen.Lorem
	params    domainllm.Params
	delay     time.Duration
}

// NewProvider creates a lorem provider. delay simulates API latency.
func NewProvider(params domainllm.Params, delay time.Duration) *Provider {
	return &Provider{
		generator: loremgen.New(),
		params:    params,
		delay:     delay,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// Complete returns generated text of roughly MaxTokens words at most.
func (p *Provider) Complete(ctx context.Context, prompt string) (*domainllm.Completion, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	maxWords := p.params.MaxTokens
	if maxWords <= 0 {
		maxWords = 700
	}
	text, cutoff := p.generateTextWords(maxWords)

	stopReason := "end_turn"
	if cutoff {
		stopReason = "max_tokens"
	}

	return &domainllm.Completion{
		Text:         text,
		Model:        p.params.Model,
		InputTokens:  len(strings.Fields(prompt)),
		OutputTokens: len(strings.Fields(text)),
		StopReason:   stopReason,
	}, nil
}

// generateTextWords produces one paragraph of 3-5 sentences, trimmed to
// maxWords words. Reports whether trimming happened.
func (p *Provider) generateTextWords(maxWords int) (string, bool) {
	words := strings.Fields(p.generator.Paragraph(3, 5))
	if len(words) > maxWords {
		return strings.Join(words[:maxWords], " "), true
	}
	return strings.Join(words, " "), false
}
