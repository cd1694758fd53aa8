package recommend

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

const (
	// kmeansSeed fixes the generator so cluster assignments are
	// reproducible across runs on the same corpus.
	kmeansSeed     = 42
	kmeansRestarts = 10
	kmeansMaxIters = 300
)

type kmeansResult struct {
	labels    []int
	centroids [][]float32
	inertia   float64
}

// kmeans partitions the points into k clusters with Lloyd's algorithm and
// k-means++ seeding. It runs kmeansRestarts independent initializations and
// keeps the one with the lowest inertia (total within-cluster squared
// distance). The generator is seeded deterministically, so the result is a
// pure function of the input.
func kmeans(points [][]float32, k int) (*kmeansResult, error) {
	if k <= 0 {
		return nil, errors.Errorf("cluster count must be positive, got %d", k)
	}
	if len(points) < k {
		return nil, errors.Errorf("need at least %d points for %d clusters, got %d", k, k, len(points))
	}

	rng := rand.New(rand.NewSource(kmeansSeed))
	best := &kmeansResult{inertia: math.Inf(1)}
	for restart := 0; restart < kmeansRestarts; restart++ {
		result := runKmeans(points, k, rng)
		if result.inertia < best.inertia {
			best = result
		}
	}
	return best, nil
}

func runKmeans(points [][]float32, k int, rng *rand.Rand) *kmeansResult {
	centroids := seedCentroids(points, k, rng)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < kmeansMaxIters; iter++ {
		changed := false
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if nearest != labels[i] {
				labels[i] = nearest
				changed = true
			}
		}
		fixEmptyClusters(points, labels, centroids)
		if !changed {
			break
		}
		recomputeCentroids(points, labels, centroids)
	}

	var inertia float64
	for i, p := range points {
		inertia += squaredDistance(p, centroids[labels[i]])
	}
	return &kmeansResult{labels: labels, centroids: centroids, inertia: inertia}
}

// seedCentroids implements k-means++: the first centroid is uniform, each
// following one is drawn with probability proportional to the squared
// distance from the nearest centroid chosen so far.
func seedCentroids(points [][]float32, k int, rng *rand.Rand) [][]float32 {
	centroids := make([][]float32, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(len(points))]))

	minDist := make([]float64, len(points))
	for i, p := range points {
		minDist[i] = squaredDistance(p, centroids[0])
	}
	for len(centroids) < k {
		var total float64
		for _, d := range minDist {
			total += d
		}

		next := len(points) - 1
		if total > 0 {
			target := rng.Float64() * total
			var cumulative float64
			for i, d := range minDist {
				cumulative += d
				if cumulative >= target {
					next = i
					break
				}
			}
		} else {
			next = rng.Intn(len(points))
		}
		centroids = append(centroids, clone(points[next]))
		for i, p := range points {
			if d := squaredDistance(p, centroids[len(centroids)-1]); d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return centroids
}

func nearestCentroid(p []float32, centroids [][]float32) int {
	nearest, nearestDist := 0, math.Inf(1)
	for c, centroidVec := range centroids {
		if d := squaredDistance(p, centroidVec); d < nearestDist {
			nearest, nearestDist = c, d
		}
	}
	return nearest
}

func recomputeCentroids(points [][]float32, labels []int, centroids [][]float32) {
	members := make([][][]float32, len(centroids))
	for i, p := range points {
		members[labels[i]] = append(members[labels[i]], p)
	}
	for c := range centroids {
		if len(members[c]) > 0 {
			centroids[c] = centroid(members[c])
		}
	}
}

// fixEmptyClusters reassigns the point farthest from its centroid to any
// cluster that lost all members, so every cluster stays populated.
func fixEmptyClusters(points [][]float32, labels []int, centroids [][]float32) {
	counts := make([]int, len(centroids))
	for _, l := range labels {
		counts[l]++
	}
	for c, count := range counts {
		if count > 0 {
			continue
		}
		farthest, farthestDist := -1, -1.0
		for i, p := range points {
			if counts[labels[i]] <= 1 {
				continue
			}
			if d := squaredDistance(p, centroids[labels[i]]); d > farthestDist {
				farthest, farthestDist = i, d
			}
		}
		if farthest >= 0 {
			counts[labels[farthest]]--
			labels[farthest] = c
			counts[c]++
			centroids[c] = clone(points[farthest])
		}
	}
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
