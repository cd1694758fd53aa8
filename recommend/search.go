package recommend

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/ai/dashscope"
	"github.com/charecktowa/thesis-match/store"
)

// Recommendation is the combined result of a text query against the corpus.
type Recommendation struct {
	Query            string         `json:"query"`
	Theses           []ThesisMatch  `json:"theses,omitempty"`
	ResearchProducts []ProductMatch `json:"research_products,omitempty"`
}

// RecommendByText embeds the query in retrieval mode and ranks the selected
// corpora against it. At least one corpus must be selected.
func (e *Engine) RecommendByText(ctx context.Context, query string, k int, includeTheses, includeProducts bool) (*Recommendation, error) {
	query = CleanText(query)
	if query == "" {
		return nil, errors.Wrap(ErrInvalidInput, "query must not be empty")
	}
	if !includeTheses && !includeProducts {
		return nil, errors.Wrap(ErrInvalidInput, "at least one of theses or research products must be searched")
	}
	queryVector, err := e.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &Recommendation{Query: query}
	if includeTheses {
		result.Theses, err = e.SearchTheses(ctx, queryVector, k)
		if err != nil {
			return nil, err
		}
	}
	if includeProducts {
		result.ResearchProducts, err = e.SearchResearchProducts(ctx, queryVector, k, nil)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (e *Engine) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if e.embedder == nil {
		return nil, errors.Wrap(ErrEmbeddingUnavailable, "no embedding provider configured")
	}
	vector, err := e.embedder.Embed(ctx, query, dashscope.TextTypeQuery)
	if err != nil {
		return nil, errors.Wrapf(ErrEmbeddingUnavailable, "embed query: %v", err)
	}
	return vector, nil
}

// SearchTheses ranks all theses that carry an embedding by cosine
// similarity to queryVector and returns at most k matches.
func (e *Engine) SearchTheses(ctx context.Context, queryVector []float32, k int) ([]ThesisMatch, error) {
	if k <= 0 {
		return []ThesisMatch{}, nil
	}
	theses, err := e.corpus.ListThesisDetails(ctx, &store.FindThesis{HasEmbedding: boolPtr(true)})
	if err != nil {
		return nil, errors.Wrap(err, "list theses")
	}
	ranked := rank(len(theses), k,
		func(i int) float64 { return cosineSimilarity(queryVector, theses[i].Embedding) },
		func(i int) int32 { return theses[i].ID })
	matches := make([]ThesisMatch, 0, len(ranked))
	for _, r := range ranked {
		matches = append(matches, ThesisMatch{
			ThesisSummary: newThesisSummary(theses[r.index]),
			Score:         r.score,
		})
	}
	return matches, nil
}

// SearchResearchProducts ranks all research products that carry an
// embedding, optionally restricted to a publication year range, and returns
// at most k matches.
func (e *Engine) SearchResearchProducts(ctx context.Context, queryVector []float32, k int, years *YearRange) ([]ProductMatch, error) {
	if k <= 0 {
		return []ProductMatch{}, nil
	}
	find := &store.FindResearchProduct{HasEmbedding: boolPtr(true)}
	if years != nil {
		find.MinYear = years.MinYear
		find.MaxYear = years.MaxYear
	}
	products, err := e.corpus.ListResearchProductDetails(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "list research products")
	}
	ranked := rank(len(products), k,
		func(i int) float64 { return cosineSimilarity(queryVector, products[i].Embedding) },
		func(i int) int32 { return products[i].ID })
	matches := make([]ProductMatch, 0, len(ranked))
	for _, r := range ranked {
		matches = append(matches, ProductMatch{
			ProductSummary: newProductSummary(products[r.index]),
			Score:          r.score,
		})
	}
	return matches, nil
}

type scoredIndex struct {
	index int
	score float64
}

// rank orders n candidates by descending score, breaking ties by ascending
// id so results are stable across runs, and keeps the top k.
func rank(n, k int, score func(i int) float64, id func(i int) int32) []scoredIndex {
	ranked := make([]scoredIndex, n)
	for i := 0; i < n; i++ {
		ranked[i] = scoredIndex{index: i, score: score(i)}
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return id(ranked[a].index) < id(ranked[b].index)
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
