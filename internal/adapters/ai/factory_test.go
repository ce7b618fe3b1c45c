package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockai/internal/adapters/config"
	"stockai/pkg/errors"
)

func TestNewProviderWithoutKeys(t *testing.T) {
	_, err := NewProvider(context.Background(), config.AIConfig{
		DefaultProvider: "gemini",
	})

	assert.True(t, errors.Is(err, errors.ErrMissingCredentials))
}

func TestNewProviderPrefersConfiguredDefault(t *testing.T) {
	provider, err := NewProvider(context.Background(), config.AIConfig{
		DefaultProvider: "openai",
		OpenAIKey:       "test-key",
	})

	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Name())
}

func TestNewProviderFallsBackWhenDefaultHasNoKey(t *testing.T) {
	provider, err := NewProvider(context.Background(), config.AIConfig{
		DefaultProvider: "gemini",
		OpenAIKey:       "test-key",
	})

	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Name())
}
