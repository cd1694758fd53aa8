// Package ai provides the vector embedding service used by the
// recommendation core and the offline population job.
package ai

import (
	"context"
	"errors"

	"github.com/charecktowa/thesis-match/ai/dashscope"
)

// EmbeddingService is the vector embedding service interface.
// It is the only networked dependency of the recommendation core and is
// faked in tests.
type EmbeddingService interface {
	// Embed generates a vector for a single text.
	Embed(ctx context.Context, text string, textType dashscope.TextType) ([]float32, error)

	// EmbedBatch generates vectors for multiple texts, preserving input order.
	EmbedBatch(ctx context.Context, texts []string, textType dashscope.TextType) ([][]float32, error)

	// Dimensions returns the vector dimension.
	Dimensions() int
}

type embeddingService struct {
	client     *dashscope.Client
	model      string
	dimensions int
}

// NewEmbeddingService creates an EmbeddingService backed by Dashscope.
func NewEmbeddingService(cfg *EmbeddingConfig) (EmbeddingService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := dashscope.NewClient(dashscope.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return &embeddingService{
		client:     client,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

func (s *embeddingService) Embed(ctx context.Context, text string, textType dashscope.TextType) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text}, textType)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("empty embedding result")
	}
	return vectors[0], nil
}

func (s *embeddingService) EmbedBatch(ctx context.Context, texts []string, textType dashscope.TextType) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts provided for embedding")
	}

	return s.client.CreateEmbeddings(ctx, dashscope.EmbeddingRequest{
		Model: s.model,
		Input: dashscope.EmbeddingInput{Texts: texts},
		Parameters: dashscope.EmbeddingParameters{
			TextType:  textType,
			Dimension: s.dimensions,
		},
	})
}

func (s *embeddingService) Dimensions() int {
	return s.dimensions
}
