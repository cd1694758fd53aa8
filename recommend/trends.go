package recommend

import (
	"context"
	"log/slog"

	"github.com/charecktowa/thesis-match/store"
)

const (
	// trendWindowYears is the span of the default trend window, ending at
	// the engine's reference year.
	trendWindowYears = 5

	// trendMinProducts is the minimum number of embedded products a year
	// needs before clustering is attempted for it.
	trendMinProducts = 3

	trendMaxClusters = 5
)

// TrendBucket is the per-year slice of a trend analysis. A year with too
// little data, or whose clustering failed, carries zero clusters.
type TrendBucket struct {
	TotalProducts int       `json:"total_products"`
	Clusters      []Cluster `json:"clusters"`
}

// Trends clusters research products year by year, revealing how topics
// shift over time. Years defaults to the five-year window ending at the
// reference year. Each cluster list keeps at most topK clusters. A failure
// in one year never aborts the others.
func (e *Engine) Trends(ctx context.Context, years []int32, topK int) (map[int32]TrendBucket, error) {
	if len(years) == 0 {
		for y := e.referenceYear - trendWindowYears + 1; y <= e.referenceYear; y++ {
			years = append(years, y)
		}
	}
	if topK < 0 {
		topK = 0
	}

	trends := make(map[int32]TrendBucket, len(years))
	for _, year := range years {
		trends[year] = e.trendForYear(ctx, year, topK)
	}
	return trends, nil
}

func (e *Engine) trendForYear(ctx context.Context, year int32, topK int) TrendBucket {
	yearRange := &YearRange{MinYear: &year, MaxYear: &year}
	count, err := e.countEmbeddedProducts(ctx, yearRange)
	if err != nil {
		slog.Warn("trend analysis failed for year", "year", year, "error", err)
		return TrendBucket{Clusters: []Cluster{}}
	}
	if count < trendMinProducts {
		return TrendBucket{TotalProducts: count, Clusters: []Cluster{}}
	}

	nClusters := count / 2
	if nClusters > trendMaxClusters {
		nClusters = trendMaxClusters
	}
	analysis, err := e.ClusterTitles(ctx, EntityResearchProducts, nClusters, yearRange)
	if err != nil {
		slog.Warn("trend analysis failed for year", "year", year, "error", err)
		return TrendBucket{TotalProducts: count, Clusters: []Cluster{}}
	}

	clusters := analysis.Clusters
	sortClustersBySize(clusters)
	if topK < len(clusters) {
		clusters = clusters[:topK]
	}
	return TrendBucket{TotalProducts: count, Clusters: clusters}
}

func (e *Engine) countEmbeddedProducts(ctx context.Context, years *YearRange) (int, error) {
	products, err := e.corpus.ListResearchProductDetails(ctx, &store.FindResearchProduct{
		HasEmbedding: boolPtr(true),
		MinYear:      years.MinYear,
		MaxYear:      years.MaxYear,
	})
	if err != nil {
		return 0, err
	}
	return len(products), nil
}
