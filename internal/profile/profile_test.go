package profile

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEmbeddingEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DASHSCOPE_API_KEY",
		"THESISMATCH_EMBEDDING_BASE_URL",
		"THESISMATCH_EMBEDDING_MODEL",
		"THESISMATCH_EMBEDDING_DIMENSIONS",
		"THESISMATCH_EMBEDDING_TIMEOUT_SECONDS",
		"THESISMATCH_REFERENCE_YEAR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestProfileEmbeddingDefaults(t *testing.T) {
	clearEmbeddingEnvVars(t)

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, DefaultEmbeddingBaseURL, p.EmbeddingBaseURL)
	assert.Equal(t, DefaultEmbeddingModel, p.EmbeddingModel)
	assert.Equal(t, DefaultEmbeddingDimensions, p.EmbeddingDimensions)
	assert.Equal(t, 60, p.EmbeddingTimeout)
	assert.Equal(t, 2024, p.ReferenceYear)
	assert.False(t, p.IsEmbeddingConfigured())
}

func TestProfileFromEnv(t *testing.T) {
	clearEmbeddingEnvVars(t)
	t.Setenv("DASHSCOPE_API_KEY", "sk-test")
	t.Setenv("THESISMATCH_EMBEDDING_MODEL", "text-embedding-v3")
	t.Setenv("THESISMATCH_REFERENCE_YEAR", "2026")

	p := &Profile{}
	p.FromEnv()

	assert.True(t, p.IsEmbeddingConfigured())
	assert.Equal(t, "text-embedding-v3", p.EmbeddingModel)
	assert.Equal(t, 2026, p.ReferenceYear)
}

func TestProfileValidate(t *testing.T) {
	t.Run("unknown driver rejected", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "mysql"}
		require.Error(t, p.Validate())
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "postgres"}
		require.Error(t, p.Validate())
	})

	t.Run("sqlite derives dsn from data dir", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "sqlite", Data: t.TempDir()}
		require.NoError(t, p.Validate())
		assert.NotEmpty(t, p.DSN)
	})

	t.Run("unknown mode falls back to dev", func(t *testing.T) {
		p := &Profile{Mode: "staging", Driver: "sqlite", Data: t.TempDir()}
		require.NoError(t, p.Validate())
		assert.Equal(t, "dev", p.Mode)
	})
}
