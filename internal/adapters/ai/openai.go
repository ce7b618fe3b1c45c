package ai

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

// OpenAIProvider generates text using the official OpenAI Go SDK.
type OpenAIProvider struct {
	client  openai.Client // NewClient returns Client (not *Client)
	model   string
	limiter RateLimiter
	log     *logger.Logger
}

// NewOpenAIProvider creates an OpenAI-backed text provider.
func NewOpenAIProvider(apiKey string, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "openai API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		model:   model,
		limiter: limiterFor(ProviderNameOpenAI),
		log:     logger.Get().With("component", "openai_provider", "model", model),
	}, nil
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string { return string(ProviderNameOpenAI) }

// Complete generates a completion for the prompt.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", errors.Wrapf(errors.ErrInvalidInput, "prompt cannot be empty")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a balanced, objective financial market analyst."),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion failed")
	}

	if len(resp.Choices) == 0 {
		return "", errors.Wrapf(errors.ErrInternal, "openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.Wrapf(errors.ErrInternal, "openai returned empty text")
	}

	p.log.Debug("Generated completion",
		"prompt_length", len(prompt),
		"response_length", len(text),
		"tokens_used", resp.Usage.TotalTokens)

	return text, nil
}
