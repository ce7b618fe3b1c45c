package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

// GeminiProvider generates text through the Gemini API.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	limiter RateLimiter
	log     *logger.Logger
}

// NewGeminiProvider creates a Gemini-backed text provider.
func NewGeminiProvider(ctx context.Context, apiKey string, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	return &GeminiProvider{
		client:  client,
		model:   model,
		limiter: limiterFor(ProviderNameGemini),
		log:     logger.Get().With("component", "gemini_provider", "model", model),
	}, nil
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string { return string(ProviderNameGemini) }

// Complete generates a completion for the prompt.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", errors.Wrapf(errors.ErrInvalidInput, "prompt cannot be empty")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
	})
	if err != nil {
		return "", errors.Wrap(err, "gemini generate content failed")
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.Wrapf(errors.ErrInternal, "gemini returned no text")
	}

	p.log.Debug("Generated completion", "prompt_length", len(prompt), "response_length", len(text))
	return text, nil
}
