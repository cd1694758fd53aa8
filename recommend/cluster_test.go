package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charecktowa/thesis-match/store"
)

func clusterCorpus() *fakeCorpus {
	return &fakeCorpus{
		theses: []*store.ThesisDetail{
			thesis(1, "vision a", []float32{1, 0, 0}),
			thesis(2, "vision b", []float32{0.95, 0.05, 0}),
			thesis(3, "nlp a", []float32{0, 1, 0}),
			thesis(4, "nlp b", []float32{0.05, 0.95, 0}),
			thesis(5, "pending", nil),
		},
		products: []*store.ResearchProductDetail{
			product(10, "robotics 2022", 2022, 1, []float32{0, 0, 1}),
			product(11, "robotics 2022 ii", 2022, 1, []float32{0, 0.1, 0.9}),
			product(12, "vision 2022", 2022, 2, []float32{1, 0, 0}),
			product(13, "vision 2023", 2023, 2, []float32{0.9, 0, 0.1}),
		},
	}
}

func TestClusterTitlesTheses(t *testing.T) {
	engine := NewEngine(clusterCorpus(), nil, 2024)

	analysis, err := engine.ClusterTitles(context.Background(), EntityTheses, 2, nil)
	require.NoError(t, err)
	require.Equal(t, EntityTheses, analysis.EntityType)
	require.Equal(t, 4, analysis.TotalItems, "only embedded theses participate")
	require.Equal(t, 2, analysis.ClusterCount)
	require.Len(t, analysis.Clusters, 2)

	total := 0
	for _, c := range analysis.Clusters {
		require.Equal(t, len(c.Items), c.Size)
		require.NotEmpty(t, c.Centroid)
		total += c.Size
	}
	require.Equal(t, 4, total)

	// Clusters come back in id order.
	for i, c := range analysis.Clusters {
		require.Equal(t, i, c.ClusterID)
	}
}

func TestClusterTitlesProductsYearFilter(t *testing.T) {
	engine := NewEngine(clusterCorpus(), nil, 2024)

	year := int32(2022)
	analysis, err := engine.ClusterTitles(context.Background(), EntityResearchProducts, 2,
		&YearRange{MinYear: &year, MaxYear: &year})
	require.NoError(t, err)
	require.Equal(t, 3, analysis.TotalItems)
	for _, c := range analysis.Clusters {
		for _, item := range c.Items {
			require.NotNil(t, item.Year)
			require.Equal(t, year, *item.Year)
		}
	}
}

func TestClusterTitlesRejectsTooFewItems(t *testing.T) {
	engine := NewEngine(clusterCorpus(), nil, 2024)

	_, err := engine.ClusterTitles(context.Background(), EntityTheses, 10, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.ClusterTitles(context.Background(), EntityTheses, 0, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.ClusterTitles(context.Background(), EntityKind("laboratories"), 2, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestClusterTitlesDeterministic(t *testing.T) {
	engine := NewEngine(clusterCorpus(), nil, 2024)
	ctx := context.Background()

	first, err := engine.ClusterTitles(ctx, EntityTheses, 2, nil)
	require.NoError(t, err)
	second, err := engine.ClusterTitles(ctx, EntityTheses, 2, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
