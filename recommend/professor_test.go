package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charecktowa/thesis-match/store"
)

func TestCompareProfessorsAlignedResearch(t *testing.T) {
	corpus := &fakeCorpus{products: []*store.ResearchProductDetail{
		product(1, "vision a", 2022, 1, []float32{1, 0, 0}),
		product(2, "vision b", 2023, 1, []float32{0.9, 0.1, 0}),
		product(3, "vision c", 2022, 2, []float32{0.95, 0.05, 0}),
		product(4, "unrelated", 2023, 2, []float32{0, 1, 0}),
	}}
	engine := NewEngine(corpus, nil, 2024)

	result, err := engine.CompareProfessors(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, 2, result.Products1)
	require.Equal(t, 2, result.Products2)
	require.Greater(t, result.SimilarityScore, 0.0)
	require.LessOrEqual(t, result.SimilarityScore, 1.0)
	require.Empty(t, result.Message)

	// Only cross-professor pairs above the threshold qualify.
	require.NotEmpty(t, result.CommonTopics)
	for _, pair := range result.CommonTopics {
		require.Greater(t, pair.Similarity, commonTopicThreshold)
	}
	// Best pair first.
	for i := 1; i < len(result.CommonTopics); i++ {
		require.GreaterOrEqual(t, result.CommonTopics[i-1].Similarity, result.CommonTopics[i].Similarity)
	}
}

func TestCompareProfessorsCapsCommonTopics(t *testing.T) {
	var products []*store.ResearchProductDetail
	for i := int32(0); i < 4; i++ {
		products = append(products, product(i+1, "topic", 2022, 1, []float32{1, 0, 0}))
		products = append(products, product(i+100, "topic", 2022, 2, []float32{1, 0, 0}))
	}
	engine := NewEngine(&fakeCorpus{products: products}, nil, 2024)

	// 4x4 identical pairs, capped at the reporting limit.
	result, err := engine.CompareProfessors(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, result.CommonTopics, maxCommonTopics)
	require.InDelta(t, 1.0, result.SimilarityScore, 1e-9)
}

func TestCompareProfessorsWithoutProducts(t *testing.T) {
	corpus := &fakeCorpus{products: []*store.ResearchProductDetail{
		product(1, "vision", 2022, 1, []float32{1, 0, 0}),
		product(2, "pending", 2022, 2, nil),
	}}
	engine := NewEngine(corpus, nil, 2024)

	result, err := engine.CompareProfessors(context.Background(), 1, 2)
	require.NoError(t, err, "missing research is a soft outcome")
	require.Zero(t, result.SimilarityScore)
	require.NotEmpty(t, result.Message)
	require.Empty(t, result.CommonTopics)
	require.Equal(t, 1, result.Products1)
	require.Zero(t, result.Products2)
}

func TestCompareProfessorsSelfComparison(t *testing.T) {
	corpus := &fakeCorpus{products: []*store.ResearchProductDetail{
		product(1, "vision a", 2022, 7, []float32{1, 0, 0}),
		product(2, "vision b", 2023, 7, []float32{0.9, 0.1, 0}),
	}}
	engine := NewEngine(corpus, nil, 2024)

	result, err := engine.CompareProfessors(context.Background(), 7, 7)
	require.NoError(t, err, "comparing a professor to themselves is allowed")
	require.Equal(t, 2, result.Products1)
	require.Equal(t, 2, result.Products2)
	require.InDelta(t, 1.0, result.SimilarityScore, 1e-9)
}
