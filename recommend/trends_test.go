package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charecktowa/thesis-match/store"
)

func trendsCorpus() *fakeCorpus {
	return &fakeCorpus{products: []*store.ResearchProductDetail{
		// 2023: four embedded products, two themes.
		product(1, "vision a", 2023, 1, []float32{1, 0, 0}),
		product(2, "vision b", 2023, 1, []float32{0.9, 0.1, 0}),
		product(3, "nlp a", 2023, 2, []float32{0, 1, 0}),
		product(4, "nlp b", 2023, 2, []float32{0.1, 0.9, 0}),
		// 2022: below the clustering minimum.
		product(5, "lonely", 2022, 1, []float32{0, 0, 1}),
		product(6, "pair", 2022, 1, []float32{0, 0, 0.9}),
		// 2021: enough rows but none embedded.
		product(7, "no vector a", 2021, 1, nil),
		product(8, "no vector b", 2021, 1, nil),
		product(9, "no vector c", 2021, 1, nil),
	}}
}

func TestTrendsDefaultWindow(t *testing.T) {
	engine := NewEngine(trendsCorpus(), nil, 2024)

	trends, err := engine.Trends(context.Background(), nil, 10)
	require.NoError(t, err)
	require.Len(t, trends, 5)
	for year := int32(2020); year <= 2024; year++ {
		require.Contains(t, trends, year)
	}
}

func TestTrendsClustersEligibleYears(t *testing.T) {
	engine := NewEngine(trendsCorpus(), nil, 2024)

	trends, err := engine.Trends(context.Background(), []int32{2021, 2022, 2023}, 10)
	require.NoError(t, err)

	y2023 := trends[2023]
	require.Equal(t, 4, y2023.TotalProducts)
	// min(5, 4/2) = 2 clusters.
	require.Len(t, y2023.Clusters, 2)

	y2022 := trends[2022]
	require.Equal(t, 2, y2022.TotalProducts, "below minimum, counted but not clustered")
	require.Empty(t, y2022.Clusters)

	y2021 := trends[2021]
	require.Zero(t, y2021.TotalProducts, "unembedded products never count")
	require.Empty(t, y2021.Clusters)
}

func TestTrendsTopKLimitsClusters(t *testing.T) {
	engine := NewEngine(trendsCorpus(), nil, 2024)

	trends, err := engine.Trends(context.Background(), []int32{2023}, 1)
	require.NoError(t, err)
	require.Len(t, trends[2023].Clusters, 1)
}

func TestTrendsTopKKeepsLargestClusters(t *testing.T) {
	corpus := &fakeCorpus{products: []*store.ResearchProductDetail{
		product(1, "vision a", 2023, 1, []float32{1, 0, 0}),
		product(2, "vision b", 2023, 1, []float32{0.95, 0.05, 0}),
		product(3, "vision c", 2023, 1, []float32{0.9, 0.1, 0}),
		product(4, "nlp", 2023, 2, []float32{0, 1, 0}),
	}}
	engine := NewEngine(corpus, nil, 2024)

	trends, err := engine.Trends(context.Background(), []int32{2023}, 1)
	require.NoError(t, err)
	require.Len(t, trends[2023].Clusters, 1)
	require.Equal(t, 3, trends[2023].Clusters[0].Size, "truncation keeps the biggest cluster")
}

func TestTrendsIsolatesFailures(t *testing.T) {
	// A corpus error poisons every year individually, never the call.
	corpus := trendsCorpus()
	corpus.err = errTest
	engine := NewEngine(corpus, nil, 2024)

	trends, err := engine.Trends(context.Background(), []int32{2022, 2023}, 10)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	for _, bucket := range trends {
		require.Empty(t, bucket.Clusters)
	}
}
