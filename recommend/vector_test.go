package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	require.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	require.InDelta(t, -1.0, cosineSimilarity([]float32{1, 1}, []float32{-1, -1}), 1e-9)

	// Degenerate inputs score zero instead of NaN.
	require.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	require.Zero(t, cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	require.Zero(t, cosineSimilarity(nil, nil))
}

func TestCentroid(t *testing.T) {
	mean := centroid([][]float32{{1, 2}, {3, 4}, {5, 6}})
	require.Equal(t, []float32{3, 4}, mean)

	require.Nil(t, centroid(nil))
}
