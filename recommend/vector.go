package recommend

import "math"

// cosineSimilarity returns the cosine of the angle between a and b in
// [-1, 1]. Mismatched lengths and zero vectors yield 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// centroid returns the element-wise mean of the vectors. All vectors must
// share the same dimensionality; the accumulation runs in float64 to keep
// the mean stable for large groups.
func centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		for i, x := range v {
			sum[i] += float64(x)
		}
	}
	mean := make([]float32, dim)
	n := float64(len(vectors))
	for i, s := range sum {
		mean[i] = float32(s / n)
	}
	return mean
}

// squaredDistance returns the squared Euclidean distance between a and b.
func squaredDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
