package recommend

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/store"
)

// ClusterItem is one clustered title. Thesis and research product members
// populate different optional fields of the same record.
type ClusterItem struct {
	ID    int32  `json:"id"`
	Title string `json:"title"`

	StudentName  *string `json:"student_name,omitempty"`
	Advisor1Name *string `json:"advisor1_name,omitempty"`
	Advisor2Name *string `json:"advisor2_name,omitempty"`

	Site           *string `json:"site,omitempty"`
	Year           *int32  `json:"year,omitempty"`
	ProfessorName  *string `json:"professor_name,omitempty"`
	LaboratoryName *string `json:"laboratory_name,omitempty"`
}

// Cluster is one thematic group of titles.
type Cluster struct {
	ClusterID int           `json:"cluster_id"`
	Size      int           `json:"cluster_size"`
	Items     []ClusterItem `json:"items"`
	Centroid  []float32     `json:"cluster_center"`
}

// ClusterAnalysis is the result of partitioning a corpus into thematic
// clusters.
type ClusterAnalysis struct {
	EntityType   EntityKind `json:"entity_type"`
	TotalItems   int        `json:"total_items"`
	ClusterCount int        `json:"cluster_count"`
	Clusters     []Cluster  `json:"clusters"`
}

// ClusterTitles partitions all embedded titles of the given kind into
// nClusters thematic groups. The year range applies to research products
// only; theses carry no publication year. Fewer embedded items than
// clusters is rejected rather than degraded.
func (e *Engine) ClusterTitles(ctx context.Context, kind EntityKind, nClusters int, years *YearRange) (*ClusterAnalysis, error) {
	if nClusters <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "cluster count must be positive, got %d", nClusters)
	}

	var (
		vectors [][]float32
		items   []ClusterItem
	)
	switch kind {
	case EntityTheses:
		theses, err := e.corpus.ListThesisDetails(ctx, &store.FindThesis{HasEmbedding: boolPtr(true)})
		if err != nil {
			return nil, errors.Wrap(err, "list theses")
		}
		for _, t := range theses {
			vectors = append(vectors, t.Embedding)
			items = append(items, thesisClusterItem(t))
		}
	case EntityResearchProducts:
		find := &store.FindResearchProduct{HasEmbedding: boolPtr(true)}
		if years != nil {
			find.MinYear = years.MinYear
			find.MaxYear = years.MaxYear
		}
		products, err := e.corpus.ListResearchProductDetails(ctx, find)
		if err != nil {
			return nil, errors.Wrap(err, "list research products")
		}
		for _, p := range products {
			vectors = append(vectors, p.Embedding)
			items = append(items, productClusterItem(p))
		}
	default:
		return nil, errors.Wrapf(ErrInvalidInput, "unknown entity type %q", kind)
	}

	if len(vectors) < nClusters {
		return nil, errors.Wrapf(ErrInvalidInput,
			"not enough embedded items (%d) to form %d clusters", len(vectors), nClusters)
	}

	result, err := kmeans(vectors, nClusters)
	if err != nil {
		return nil, errors.Wrap(err, "cluster embeddings")
	}

	clusters := make([]Cluster, nClusters)
	for c := range clusters {
		clusters[c] = Cluster{ClusterID: c, Centroid: result.centroids[c], Items: []ClusterItem{}}
	}
	for i, label := range result.labels {
		clusters[label].Items = append(clusters[label].Items, items[i])
		clusters[label].Size++
	}

	return &ClusterAnalysis{
		EntityType:   kind,
		TotalItems:   len(items),
		ClusterCount: nClusters,
		Clusters:     clusters,
	}, nil
}

func thesisClusterItem(t *store.ThesisDetail) ClusterItem {
	return ClusterItem{
		ID:           t.ID,
		Title:        t.Title,
		StudentName:  &t.StudentName,
		Advisor1Name: &t.Advisor1Name,
		Advisor2Name: t.Advisor2Name,
	}
}

func productClusterItem(p *store.ResearchProductDetail) ClusterItem {
	return ClusterItem{
		ID:             p.ID,
		Title:          p.Title,
		Site:           &p.Site,
		Year:           &p.Year,
		ProfessorName:  &p.ProfessorName,
		LaboratoryName: &p.LaboratoryName,
	}
}

// sortClustersBySize orders clusters by descending size, then by cluster id
// for a stable order between equal-sized clusters. Cluster analysis emits
// clusters in id order; trends re-rank by size before picking the top ones.
func sortClustersBySize(clusters []Cluster) {
	sort.Slice(clusters, func(a, b int) bool {
		if clusters[a].Size != clusters[b].Size {
			return clusters[a].Size > clusters[b].Size
		}
		return clusters[a].ClusterID < clusters[b].ClusterID
	})
}
