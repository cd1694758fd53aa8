// Package dashscope implements a client for the Dashscope native
// text-embedding API. The native endpoint is used instead of the
// OpenAI-compatible one because only the native API accepts the
// text_type parameter that distinguishes query from document embeddings.
package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// TextType tells the provider which side of the retrieval pair is being
// embedded. Queries and documents must be embedded with matching models to
// stay comparable.
type TextType string

const (
	TextTypeQuery    TextType = "query"
	TextTypeDocument TextType = "document"
)

const embeddingPath = "/services/embeddings/text-embedding/text-embedding"

// Config configures a Client. Passed explicitly so tests can point the
// client at a local server; no package-level provider state exists.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Dashscope text-embedding endpoint.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Dashscope client from config.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("dashscope api key required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("dashscope base url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// EmbeddingRequest is the native text-embedding request body.
type EmbeddingRequest struct {
	Model      string              `json:"model"`
	Input      EmbeddingInput      `json:"input"`
	Parameters EmbeddingParameters `json:"parameters"`
}

type EmbeddingInput struct {
	Texts []string `json:"texts"`
}

type EmbeddingParameters struct {
	TextType  TextType `json:"text_type"`
	Dimension int      `json:"dimension,omitempty"`
}

// EmbeddingResponse is the native text-embedding response body.
// Embeddings are aligned to the input order via TextIndex.
type EmbeddingResponse struct {
	Output    EmbeddingOutput `json:"output"`
	RequestID string          `json:"request_id"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
}

type EmbeddingOutput struct {
	Embeddings []EmbeddingItem `json:"embeddings"`
}

type EmbeddingItem struct {
	TextIndex int       `json:"text_index"`
	Embedding []float32 `json:"embedding"`
}

// CreateEmbeddings embeds every input text in one provider call.
// The returned vectors preserve input order.
func (c *Client) CreateEmbeddings(ctx context.Context, req EmbeddingRequest) ([][]float32, error) {
	if len(req.Input.Texts) == 0 {
		return nil, errors.New("no texts provided for embedding")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal embedding request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+embeddingPath, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create embedding request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "embedding request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedding response")
	}

	var embeddingResp EmbeddingResponse
	if err := json.Unmarshal(body, &embeddingResp); err != nil {
		return nil, errors.Wrapf(err, "failed to parse embedding response: HTTP %d", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		if embeddingResp.Message != "" {
			return nil, errors.Errorf("dashscope error: %s (code: %s, request_id: %s)",
				embeddingResp.Message, embeddingResp.Code, embeddingResp.RequestID)
		}
		return nil, errors.Errorf("dashscope error: HTTP %d - %s", resp.StatusCode, string(body))
	}

	if len(embeddingResp.Output.Embeddings) == 0 {
		return nil, errors.New("empty embedding response")
	}

	// Align by text_index rather than trusting slice order.
	vectors := make([][]float32, len(req.Input.Texts))
	for _, item := range embeddingResp.Output.Embeddings {
		if item.TextIndex < 0 || item.TextIndex >= len(vectors) {
			return nil, fmt.Errorf("embedding text_index %d out of range", item.TextIndex)
		}
		vectors[item.TextIndex] = item.Embedding
	}
	for i, vec := range vectors {
		if vec == nil {
			return nil, fmt.Errorf("missing embedding for input %d", i)
		}
	}

	return vectors, nil
}
