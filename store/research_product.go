package store

import "context"

// ResearchProduct is a published research output of a professor
// (article, conference paper, book chapter). The embedding follows the same
// write-once lifecycle as thesis embeddings.
type ResearchProduct struct {
	ID          int32
	Title       string
	Site        string
	Year        int32
	ProfessorID int32
	Embedding   []float32
}

// ResearchProductDetail is the read projection joined with professor and
// laboratory names.
type ResearchProductDetail struct {
	ID             int32
	Title          string
	Site           string
	Year           int32
	ProfessorID    int32
	ProfessorName  string
	LaboratoryName string
	Embedding      []float32
}

type FindResearchProduct struct {
	ID          *int32
	ProfessorID *int32
	// MinYear and MaxYear bound the publication year, inclusive.
	MinYear *int32
	MaxYear *int32
	// HasEmbedding filters on embedding presence, see FindThesis.
	HasEmbedding *bool
}

func (s *Store) UpsertResearchProduct(ctx context.Context, upsert *ResearchProduct) (*ResearchProduct, error) {
	return s.driver.UpsertResearchProduct(ctx, upsert)
}

func (s *Store) ListResearchProductDetails(ctx context.Context, find *FindResearchProduct) ([]*ResearchProductDetail, error) {
	return s.driver.ListResearchProductDetails(ctx, find)
}

// GetResearchProductDetail returns one research product with its embedding,
// or nil when absent.
func (s *Store) GetResearchProductDetail(ctx context.Context, id int32) (*ResearchProductDetail, error) {
	list, err := s.driver.ListResearchProductDetails(ctx, &FindResearchProduct{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateResearchProductEmbedding persists the embedding for one product.
// Population-job use only.
func (s *Store) UpdateResearchProductEmbedding(ctx context.Context, id int32, embedding []float32) error {
	return s.driver.UpdateResearchProductEmbedding(ctx, id, embedding)
}
