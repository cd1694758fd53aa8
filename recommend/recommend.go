// Package recommend implements the semantic recommendation core:
// similarity search over stored title embeddings, thematic clustering,
// per-year trend analysis and professor research comparison.
//
// All operations are read-only over the embedding store and safe to run
// concurrently; the only mutating activity (embedding population) lives in
// the etl package.
package recommend

import (
	"context"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/ai"
	"github.com/charecktowa/thesis-match/store"
)

// EntityKind selects the searchable corpus.
type EntityKind string

const (
	EntityTheses           EntityKind = "theses"
	EntityResearchProducts EntityKind = "research_products"
)

// Sentinel errors for the caller-facing taxonomy. Handlers map
// ErrInvalidInput to a rejected request and ErrEmbeddingUnavailable to a
// service-unavailable failure; everything else is internal.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// Corpus is the narrow read surface the engine needs from the store.
// *store.Store satisfies it; tests provide fakes.
type Corpus interface {
	ListThesisDetails(ctx context.Context, find *store.FindThesis) ([]*store.ThesisDetail, error)
	ListResearchProductDetails(ctx context.Context, find *store.FindResearchProduct) ([]*store.ResearchProductDetail, error)
	RecommendationStats(ctx context.Context) (*store.RecommendationStats, error)
}

// Engine is the recommendation engine. Stateless between requests: every
// operation works against a fresh corpus snapshot.
type Engine struct {
	corpus   Corpus
	embedder ai.EmbeddingService

	// referenceYear anchors the default trend window.
	referenceYear int32
}

// NewEngine creates a recommendation engine. embedder may be nil when the
// provider is not configured; text-query operations then fail with
// ErrEmbeddingUnavailable while id-based operations keep working.
func NewEngine(corpus Corpus, embedder ai.EmbeddingService, referenceYear int32) *Engine {
	if referenceYear <= 0 {
		referenceYear = 2024
	}
	return &Engine{
		corpus:        corpus,
		embedder:      embedder,
		referenceYear: referenceYear,
	}
}

// ThesisSummary is the thesis projection returned by search and clustering.
type ThesisSummary struct {
	ID           int32   `json:"id"`
	Title        string  `json:"title"`
	StudentID    int32   `json:"student_id"`
	StudentName  string  `json:"student_name"`
	Advisor1Name string  `json:"advisor1_name"`
	Advisor2Name *string `json:"advisor2_name"`
}

func newThesisSummary(t *store.ThesisDetail) ThesisSummary {
	return ThesisSummary{
		ID:           t.ID,
		Title:        t.Title,
		StudentID:    t.StudentID,
		StudentName:  t.StudentName,
		Advisor1Name: t.Advisor1Name,
		Advisor2Name: t.Advisor2Name,
	}
}

// ProductSummary is the research product projection returned by search and
// clustering.
type ProductSummary struct {
	ID             int32  `json:"id"`
	Title          string `json:"title"`
	Site           string `json:"site"`
	Year           int32  `json:"year"`
	ProfessorID    int32  `json:"professor_id"`
	ProfessorName  string `json:"professor_name"`
	LaboratoryName string `json:"laboratory_name"`
}

func newProductSummary(p *store.ResearchProductDetail) ProductSummary {
	return ProductSummary{
		ID:             p.ID,
		Title:          p.Title,
		Site:           p.Site,
		Year:           p.Year,
		ProfessorID:    p.ProfessorID,
		ProfessorName:  p.ProfessorName,
		LaboratoryName: p.LaboratoryName,
	}
}

// ThesisMatch is one thesis similarity search result.
type ThesisMatch struct {
	ThesisSummary
	Score float64 `json:"similarity_score"`
}

// ProductMatch is one research product similarity search result.
type ProductMatch struct {
	ProductSummary
	Score float64 `json:"similarity_score"`
}

// YearRange bounds publication years, inclusive on both ends. Nil bounds
// are open.
type YearRange struct {
	MinYear *int32
	MaxYear *int32
}

func boolPtr(b bool) *bool { return &b }
