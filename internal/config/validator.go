package config

import (
	"fmt"
	"strings"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAPIKey validates an OpenAI API key format
func (v *Validator) ValidateAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("OpenAI API key cannot be empty")
	}

	if !strings.HasPrefix(key, "sk-") {
		return fmt.Errorf("invalid OpenAI API key format (should start with sk-)")
	}

	return nil
}

// ValidateModel validates an embedding model name
func (v *Validator) ValidateModel(model string) error {
	if model == "" {
		return fmt.Errorf("embedding model cannot be empty")
	}

	knownModels := []string{
		"text-embedding-3-small",
		"text-embedding-3-large",
		"text-embedding-ada-002",
	}

	for _, known := range knownModels {
		if model == known {
			return nil
		}
	}

	// Unknown models are allowed but must look like a model identifier
	if strings.ContainsAny(model, " \t\n") {
		return fmt.Errorf("invalid embedding model name: %q", model)
	}

	return nil
}

// ValidateLogLevel validates a log level
func (v *Validator) ValidateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log level %q (must be: debug, info, warn, error)", level)
}
