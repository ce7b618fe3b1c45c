package ai

import (
	"context"

	"stockai/internal/adapters/config"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

// NewProvider builds the configured text provider. Preference order:
// the configured default first, then whichever provider has a key.
// Returns ErrMissingCredentials when no key is configured at all; the
// caller is expected to fall back to the template recommender.
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	log := logger.Get()

	build := func(name ProviderName) (Provider, error) {
		switch name {
		case ProviderNameGemini:
			if cfg.GeminiKey == "" {
				return nil, errors.ErrMissingCredentials
			}
			return NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiModel)
		case ProviderNameOpenAI:
			if cfg.OpenAIKey == "" {
				return nil, errors.ErrMissingCredentials
			}
			return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
		default:
			return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown provider %q", name)
		}
	}

	order := []ProviderName{ProviderName(cfg.DefaultProvider), ProviderNameGemini, ProviderNameOpenAI}
	seen := make(map[ProviderName]bool)

	for _, name := range order {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		provider, err := build(name)
		if err != nil {
			if errors.Is(err, errors.ErrMissingCredentials) {
				continue
			}
			log.Warnf("Failed to initialize %s provider: %v", name, err)
			continue
		}

		log.Infof("Text provider initialized: %s", provider.Name())
		return provider, nil
	}

	return nil, errors.ErrMissingCredentials
}
