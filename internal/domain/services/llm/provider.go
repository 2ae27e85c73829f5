package llm

import "context"

// CompletionClient sends one prompt to a chat-completion API and returns
// the first generated choice. Calls are single-turn and stateless: no
// earlier turns are sent as context.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)

	// Name returns the provider name (e.g., "openai", "anthropic")
	Name() string
}

// Params are the fixed generation settings applied to every call.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Completion is the text of the first choice plus usage metadata.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
	// StopReason indicates why generation stopped (e.g., "stop", "end_turn", "max_tokens")
	StopReason string
}
