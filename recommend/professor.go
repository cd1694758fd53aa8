package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/charecktowa/thesis-match/store"
)

// commonTopicThreshold is the pairwise similarity above which two products
// from different professors count as a shared topic.
const commonTopicThreshold = 0.8

// maxCommonTopics bounds how many shared topic pairs a comparison reports.
const maxCommonTopics = 5

// ProductRef identifies one research product inside a common topic pair.
type ProductRef struct {
	ID    int32  `json:"id"`
	Title string `json:"title"`
	Year  int32  `json:"year"`
}

// TopicPair is a pair of highly similar products, one from each professor.
type TopicPair struct {
	Product1   ProductRef `json:"product1"`
	Product2   ProductRef `json:"product2"`
	Similarity float64    `json:"similarity"`
}

// ProfessorSimilarity is the result of comparing two professors' research
// output. When either professor has no embedded products the score is zero
// and Message explains why.
type ProfessorSimilarity struct {
	Professor1ID    int32       `json:"professor1_id"`
	Professor2ID    int32       `json:"professor2_id"`
	SimilarityScore float64     `json:"similarity_score"`
	Products1       int         `json:"professor1_products"`
	Products2       int         `json:"professor2_products"`
	CommonTopics    []TopicPair `json:"common_topics"`
	Message         string      `json:"message,omitempty"`
}

// CompareProfessors measures how close two professors' research lines are:
// the cosine similarity of their embedding centroids, plus the most similar
// cross-professor product pairs above the common topic threshold.
func (e *Engine) CompareProfessors(ctx context.Context, professor1ID, professor2ID int32) (*ProfessorSimilarity, error) {
	products1, err := e.embeddedProductsOf(ctx, professor1ID)
	if err != nil {
		return nil, err
	}
	products2, err := e.embeddedProductsOf(ctx, professor2ID)
	if err != nil {
		return nil, err
	}

	result := &ProfessorSimilarity{
		Professor1ID: professor1ID,
		Professor2ID: professor2ID,
		Products1:    len(products1),
		Products2:    len(products2),
		CommonTopics: []TopicPair{},
	}
	if len(products1) == 0 || len(products2) == 0 {
		result.Message = fmt.Sprintf(
			"professors %d and %d cannot be compared: at least one has no embedded research products",
			professor1ID, professor2ID)
		return result, nil
	}

	result.SimilarityScore = cosineSimilarity(
		centroid(embeddingsOf(products1)),
		centroid(embeddingsOf(products2)))

	var pairs []TopicPair
	for _, p1 := range products1 {
		for _, p2 := range products2 {
			similarity := cosineSimilarity(p1.Embedding, p2.Embedding)
			if similarity > commonTopicThreshold {
				pairs = append(pairs, TopicPair{
					Product1:   ProductRef{ID: p1.ID, Title: p1.Title, Year: p1.Year},
					Product2:   ProductRef{ID: p2.ID, Title: p2.Title, Year: p2.Year},
					Similarity: similarity,
				})
			}
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].Similarity != pairs[b].Similarity {
			return pairs[a].Similarity > pairs[b].Similarity
		}
		if pairs[a].Product1.ID != pairs[b].Product1.ID {
			return pairs[a].Product1.ID < pairs[b].Product1.ID
		}
		return pairs[a].Product2.ID < pairs[b].Product2.ID
	})
	if len(pairs) > maxCommonTopics {
		pairs = pairs[:maxCommonTopics]
	}
	result.CommonTopics = append(result.CommonTopics, pairs...)
	return result, nil
}

func (e *Engine) embeddedProductsOf(ctx context.Context, professorID int32) ([]*store.ResearchProductDetail, error) {
	products, err := e.corpus.ListResearchProductDetails(ctx, &store.FindResearchProduct{
		ProfessorID:  &professorID,
		HasEmbedding: boolPtr(true),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list products of professor %d", professorID)
	}
	return products, nil
}

func embeddingsOf(products []*store.ResearchProductDetail) [][]float32 {
	vectors := make([][]float32, len(products))
	for i, p := range products {
		vectors[i] = p.Embedding
	}
	return vectors
}
