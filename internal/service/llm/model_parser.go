package llm

import (
	"fmt"
	"strings"

	"studyultra/internal/config"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // "openai", "anthropic", "lorem" or "" when unknown
	Model    string // Model identifier for that provider
	Explicit bool   // provider was given as a "provider/" prefix
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "gpt-4" → {Provider: "openai", Model: "gpt-4"}
//   - "claude-haiku-4-5" → {Provider: "anthropic", Model: "claude-haiku-4-5"}
//   - "openai/gpt-4o-mini" → {Provider: "openai", Model: "gpt-4o-mini", Explicit: true}
//   - "my-finetune" → {Provider: "", Model: "my-finetune"}
//
// Rules:
//   - If model contains "/" → split on first "/" to extract provider
//   - Else → infer provider from model prefix
func ParseModel(modelStr string) (*ModelInfo, error) {
	modelStr = strings.TrimSpace(modelStr)
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if provider, model, ok := strings.Cut(modelStr, "/"); ok {
		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}
		return &ModelInfo{Provider: strings.ToLower(provider), Model: model, Explicit: true}, nil
	}

	return &ModelInfo{Provider: inferProvider(modelStr), Model: modelStr}, nil
}

// ResolveModel returns the model name to send to provider. An explicit
// prefix must name that provider. An inferred provider must match too,
// except for the lorem mock and OpenAI-compatible endpoints, which accept
// any model name.
func ResolveModel(provider, modelStr string, compatibleEndpoint bool) (string, error) {
	info, err := ParseModel(modelStr)
	if err != nil {
		return "", err
	}

	switch {
	case info.Explicit && info.Provider != provider:
		return "", fmt.Errorf("model %q is for provider %q, configured provider is %q", modelStr, info.Provider, provider)
	case info.Explicit, info.Provider == "", info.Provider == provider:
		return info.Model, nil
	case provider == config.ProviderLorem, provider == config.ProviderOpenAI && compatibleEndpoint:
		return info.Model, nil
	default:
		return "", fmt.Errorf("model %q looks like a %s model, configured provider is %q", modelStr, info.Provider, provider)
	}
}

// inferProvider infers the provider from model name prefix
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	switch {
	case strings.HasPrefix(modelLower, "claude-"):
		return config.ProviderAnthropic
	case strings.HasPrefix(modelLower, "gpt-"),
		strings.HasPrefix(modelLower, "o1"),
		strings.HasPrefix(modelLower, "o3"),
		strings.HasPrefix(modelLower, "o4"):
		return config.ProviderOpenAI
	case strings.HasPrefix(modelLower, "lorem-"):
		return config.ProviderLorem
	default:
		return ""
	}
}
