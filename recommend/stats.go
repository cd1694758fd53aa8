package recommend

import (
	"context"

	"github.com/pkg/errors"
)

// CorpusStats reports how much of the corpus is ready for semantic search.
type CorpusStats struct {
	ThesesWithEmbeddings           int32  `json:"theses_with_embeddings"`
	ResearchProductsWithEmbeddings int32  `json:"research_products_with_embeddings"`
	ProfessorsWithResearch         int32  `json:"professors_with_research"`
	StudentsWithTheses             int32  `json:"students_with_theses"`
	MinYear                        *int32 `json:"research_products_min_year"`
	MaxYear                        *int32 `json:"research_products_max_year"`
	SystemReady                    bool   `json:"system_ready"`
}

// Stats summarizes embedding coverage. SystemReady is true once at least
// one embedded title exists in either corpus.
func (e *Engine) Stats(ctx context.Context) (*CorpusStats, error) {
	stats, err := e.corpus.RecommendationStats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load recommendation stats")
	}
	return &CorpusStats{
		ThesesWithEmbeddings:           stats.ThesesWithEmbeddings,
		ResearchProductsWithEmbeddings: stats.ResearchProductsWithEmbeddings,
		ProfessorsWithResearch:         stats.ProfessorsWithResearch,
		StudentsWithTheses:             stats.StudentsWithTheses,
		MinYear:                        stats.MinYear,
		MaxYear:                        stats.MaxYear,
		SystemReady:                    stats.ThesesWithEmbeddings > 0 || stats.ResearchProductsWithEmbeddings > 0,
	}, nil
}
