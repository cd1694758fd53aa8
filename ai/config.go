package ai

import (
	"time"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/internal/profile"
)

// EmbeddingConfig represents vector embedding configuration.
// It is passed explicitly into NewEmbeddingService; the provider key never
// lives in package-level state, so tests can construct doubles without
// touching the environment.
type EmbeddingConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

// NewEmbeddingConfigFromProfile creates embedding config from profile.
func NewEmbeddingConfigFromProfile(p *profile.Profile) *EmbeddingConfig {
	return &EmbeddingConfig{
		APIKey:     p.EmbeddingAPIKey,
		BaseURL:    p.EmbeddingBaseURL,
		Model:      p.EmbeddingModel,
		Dimensions: p.EmbeddingDimensions,
		Timeout:    time.Duration(p.EmbeddingTimeout) * time.Second,
	}
}

// Validate checks the embedding configuration.
func (c *EmbeddingConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("embedding api key is required")
	}
	if c.Model == "" {
		return errors.New("embedding model is required")
	}
	if c.Dimensions <= 0 {
		return errors.New("embedding dimensions must be positive")
	}
	return nil
}
