package ai

import (
	"context"
)

// ProviderName identifies a generative text provider.
type ProviderName string

const (
	ProviderNameGemini ProviderName = "gemini"
	ProviderNameOpenAI ProviderName = "openai"
)

// Provider generates free text from a prompt. Implementations apply
// their own rate limiting; callers own the timeout via ctx.
type Provider interface {
	// Name returns the provider identifier for logging and metrics.
	Name() string

	// Complete generates a completion for the prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}
