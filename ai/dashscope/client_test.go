package dashscope

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://example.com"})
	require.Error(t, err)
}

func TestCreateEmbeddings(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, embeddingPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, TextTypeDocument, req.Parameters.TextType)
		assert.Equal(t, 4, req.Parameters.Dimension)

		// Answer out of order to exercise text_index alignment.
		resp := EmbeddingResponse{
			RequestID: "req-1",
			Output: EmbeddingOutput{Embeddings: []EmbeddingItem{
				{TextIndex: 1, Embedding: []float32{0, 1, 0, 0}},
				{TextIndex: 0, Embedding: []float32{1, 0, 0, 0}},
			}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	vectors, err := client.CreateEmbeddings(context.Background(), EmbeddingRequest{
		Model: "text-embedding-v4",
		Input: EmbeddingInput{Texts: []string{"first", "second"}},
		Parameters: EmbeddingParameters{
			TextType:  TextTypeDocument,
			Dimension: 4,
		},
	})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 0, 0, 0}, vectors[0])
	assert.Equal(t, []float32{0, 1, 0, 0}, vectors[1])
}

func TestCreateEmbeddingsProviderError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(EmbeddingResponse{
			Code:      "Throttling.RateQuota",
			Message:   "Requests rate limit exceeded",
			RequestID: "req-2",
		})
	})

	_, err := client.CreateEmbeddings(context.Background(), EmbeddingRequest{
		Model: "text-embedding-v4",
		Input: EmbeddingInput{Texts: []string{"anything"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttling.RateQuota")
}

func TestCreateEmbeddingsEmptyInput(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("server must not be called for empty input")
	})

	_, err := client.CreateEmbeddings(context.Background(), EmbeddingRequest{Model: "text-embedding-v4"})
	require.Error(t, err)
}

func TestCreateEmbeddingsMissingVector(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(EmbeddingResponse{
			Output: EmbeddingOutput{Embeddings: []EmbeddingItem{
				{TextIndex: 0, Embedding: []float32{1}},
			}},
		})
	})

	_, err := client.CreateEmbeddings(context.Background(), EmbeddingRequest{
		Model: "text-embedding-v4",
		Input: EmbeddingInput{Texts: []string{"a", "b"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing embedding")
}
