package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charecktowa/thesis-match/store"
)

func similarCorpus() *fakeCorpus {
	return &fakeCorpus{
		theses: []*store.ThesisDetail{
			thesis(1, "reference thesis", []float32{1, 0, 0}),
			thesis(2, "near thesis", []float32{0.9, 0.1, 0}),
			thesis(3, "far thesis", []float32{0, 1, 0}),
		},
		products: []*store.ResearchProductDetail{
			product(10, "reference paper", 2023, 1, []float32{0, 0, 1}),
			product(11, "near paper", 2023, 1, []float32{0, 0.1, 0.9}),
			product(12, "unembedded paper", 2023, 1, nil),
		},
	}
}

func TestFindSimilarByIDValidation(t *testing.T) {
	engine := NewEngine(similarCorpus(), nil, 2024)
	ctx := context.Background()

	_, err := engine.FindSimilarByID(ctx, Reference{}, 5, SearchBoth)
	require.ErrorIs(t, err, ErrInvalidInput, "neither id set")

	_, err = engine.FindSimilarByID(ctx, Reference{ThesisID: int32Ptr(1), ResearchProductID: int32Ptr(10)}, 5, SearchBoth)
	require.ErrorIs(t, err, ErrInvalidInput, "both ids set")

	_, err = engine.FindSimilarByID(ctx, Reference{ThesisID: int32Ptr(1)}, 5, SearchType("everything"))
	require.ErrorIs(t, err, ErrInvalidInput, "unknown search type")
}

func TestFindSimilarByIDUnknownReferenceIsSoft(t *testing.T) {
	engine := NewEngine(similarCorpus(), nil, 2024)
	ctx := context.Background()

	result, err := engine.FindSimilarByID(ctx, Reference{ThesisID: int32Ptr(999)}, 5, SearchBoth)
	require.NoError(t, err)
	require.Equal(t, int32(999), result.ReferenceID)
	require.NotEmpty(t, result.Message)
	require.Empty(t, result.Theses)
	require.Empty(t, result.ResearchProducts)

	result, err = engine.FindSimilarByID(ctx, Reference{ResearchProductID: int32Ptr(999)}, 5, SearchBoth)
	require.NoError(t, err)
	require.NotEmpty(t, result.Message)
	require.Empty(t, result.Theses)
	require.Empty(t, result.ResearchProducts)
}

func TestFindSimilarByIDExcludesSelf(t *testing.T) {
	engine := NewEngine(similarCorpus(), nil, 2024)

	result, err := engine.FindSimilarByID(context.Background(), Reference{ThesisID: int32Ptr(1)}, 10, SearchTheses)
	require.NoError(t, err)
	require.Equal(t, int32(1), result.ReferenceID)
	require.Equal(t, "reference thesis", result.ReferenceTitle)
	require.Empty(t, result.Message)
	for _, m := range result.Theses {
		require.NotEqual(t, int32(1), m.ID, "reference must not recommend itself")
	}
	require.Equal(t, int32(2), result.Theses[0].ID, "nearest neighbor first")
}

func TestFindSimilarByIDSearchesBoth(t *testing.T) {
	engine := NewEngine(similarCorpus(), nil, 2024)

	result, err := engine.FindSimilarByID(context.Background(), Reference{ResearchProductID: int32Ptr(10)}, 10, SearchBoth)
	require.NoError(t, err)
	require.NotEmpty(t, result.Theses, "cross-corpus matches included")
	require.Len(t, result.ResearchProducts, 1)
	require.Equal(t, int32(11), result.ResearchProducts[0].ID)
}

func TestFindSimilarByIDMissingEmbeddingIsSoft(t *testing.T) {
	engine := NewEngine(similarCorpus(), nil, 2024)

	result, err := engine.FindSimilarByID(context.Background(), Reference{ResearchProductID: int32Ptr(12)}, 10, SearchBoth)
	require.NoError(t, err)
	require.NotEmpty(t, result.Message)
	require.Empty(t, result.Theses)
	require.Empty(t, result.ResearchProducts)
}
