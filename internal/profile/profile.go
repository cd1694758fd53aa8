package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// Embedding provider configuration (Dashscope text-embedding API)
	EmbeddingAPIKey     string // Dashscope API key
	EmbeddingBaseURL    string // API base URL; the intl endpoint by default
	EmbeddingModel      string // Embedding model name
	EmbeddingDimensions int    // Vector dimension
	EmbeddingTimeout    int    // Provider request timeout in seconds

	Mode    string
	Addr    string
	Port    int
	Data    string
	Driver  string
	DSN     string
	Version string

	// ReferenceYear anchors the default trend window (the 5 most recent years).
	ReferenceYear int
}

const (
	// DefaultEmbeddingBaseURL is the Singapore-region Dashscope endpoint.
	// Intl region is deliberate: source pages carry personal data that must
	// not transit the mainland endpoint.
	DefaultEmbeddingBaseURL = "https://dashscope-intl.aliyuncs.com/api/v1"

	// DefaultEmbeddingModel is the text embedding model used for titles and queries.
	DefaultEmbeddingModel = "text-embedding-v4"

	// DefaultEmbeddingDimensions is the vector dimension of every stored embedding.
	DefaultEmbeddingDimensions = 1024
)

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsEmbeddingConfigured reports whether the embedding provider can be called.
// Exposed through the recommendation health endpoint.
func (p *Profile) IsEmbeddingConfigured() bool {
	return p.EmbeddingAPIKey != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads provider configuration from environment variables.
func (p *Profile) FromEnv() {
	p.EmbeddingAPIKey = getEnvOrDefault("DASHSCOPE_API_KEY", "")
	p.EmbeddingBaseURL = getEnvOrDefault("THESISMATCH_EMBEDDING_BASE_URL", DefaultEmbeddingBaseURL)
	p.EmbeddingModel = getEnvOrDefault("THESISMATCH_EMBEDDING_MODEL", DefaultEmbeddingModel)
	p.EmbeddingDimensions = getEnvOrDefaultInt("THESISMATCH_EMBEDDING_DIMENSIONS", DefaultEmbeddingDimensions)
	p.EmbeddingTimeout = getEnvOrDefaultInt("THESISMATCH_EMBEDDING_TIMEOUT_SECONDS", 60)
	p.ReferenceYear = getEnvOrDefaultInt("THESISMATCH_REFERENCE_YEAR", 2024)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Driver != "postgres" && p.Driver != "sqlite" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn required for postgres driver")
	}

	if p.Driver == "sqlite" {
		if p.Data == "" {
			p.Data = "."
		}
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			p.DSN = filepath.Join(dataDir, fmt.Sprintf("thesismatch_%s.db", p.Mode))
		}
	}

	if p.EmbeddingDimensions <= 0 {
		p.EmbeddingDimensions = DefaultEmbeddingDimensions
	}
	if p.EmbeddingTimeout <= 0 {
		p.EmbeddingTimeout = 60
	}
	if p.ReferenceYear <= 0 {
		p.ReferenceYear = 2024
	}

	return nil
}
