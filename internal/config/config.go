package config

import (
	"encoding/json"
	"fmt"
)

// Config represents the main recall configuration
type Config struct {
	// Data directory (database and logs live here by default)
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// Database file path
	DBPath string `json:"db_path" mapstructure:"db_path"`

	// Embedding provider configuration
	Embedding EmbeddingConfig `json:"embedding" mapstructure:"embedding"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// EmbeddingConfig holds embedding provider configuration. An empty APIKey
// disables embeddings; the store then serves text search only.
type EmbeddingConfig struct {
	APIKey         string `json:"api_key" mapstructure:"api_key"`
	Model          string `json:"model" mapstructure:"model"`
	MaxChars       int    `json:"max_chars" mapstructure:"max_chars"`
	TimeoutSeconds int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// Enabled reports whether an embedding provider is configured.
func (c EmbeddingConfig) Enabled() bool {
	return c.APIKey != ""
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	v := NewValidator()

	if c.Embedding.Enabled() {
		if err := v.ValidateAPIKey(c.Embedding.APIKey); err != nil {
			return fmt.Errorf("embedding: %w", err)
		}
		if err := v.ValidateModel(c.Embedding.Model); err != nil {
			return fmt.Errorf("embedding: %w", err)
		}
	}

	if err := v.ValidateLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}

// DefaultConfig returns default recall configuration
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Model:          "text-embedding-3-small",
			MaxChars:       8000,
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
	}
}
