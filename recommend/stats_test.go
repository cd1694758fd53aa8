package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charecktowa/thesis-match/store"
)

func TestStats(t *testing.T) {
	corpus := &fakeCorpus{stats: &store.RecommendationStats{
		ThesesWithEmbeddings:           12,
		ResearchProductsWithEmbeddings: 0,
		ProfessorsWithResearch:         3,
		StudentsWithTheses:             12,
		MinYear:                        int32Ptr(2019),
		MaxYear:                        int32Ptr(2024),
	}}
	engine := NewEngine(corpus, nil, 2024)

	stats, err := engine.Stats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 12, stats.ThesesWithEmbeddings)
	require.True(t, stats.SystemReady, "ready with either corpus embedded")

	corpus.stats = &store.RecommendationStats{}
	stats, err = engine.Stats(context.Background())
	require.NoError(t, err)
	require.False(t, stats.SystemReady)
}

func TestStatsStoreFailure(t *testing.T) {
	engine := NewEngine(&fakeCorpus{err: errTest}, nil, 2024)

	_, err := engine.Stats(context.Background())
	require.Error(t, err)
}
