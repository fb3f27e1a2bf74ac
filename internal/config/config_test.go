package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 8000, cfg.Embedding.MaxChars)
	assert.Equal(t, 30, cfg.Embedding.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Console)
	assert.False(t, cfg.Embedding.Enabled())
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config without embeddings", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("valid config with embeddings", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Embedding.APIKey = "sk-test123"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bad API key format", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Embedding.APIKey = "not-a-key"

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "API key")
	})

	t.Run("bad model name", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Embedding.APIKey = "sk-test123"
		cfg.Embedding.Model = "not a model"

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "model")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Logging.Level = "loud"

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "log level")
	})
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()

	assert.Contains(t, s, "text-embedding-3-small")
	assert.Contains(t, s, "\"logging\"")
}
