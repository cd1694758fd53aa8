package store

import "context"

// Thesis is a graduate thesis. The embedding is written once by the offline
// population job and never mutated afterwards; a nil embedding means the
// thesis is not yet eligible for similarity search or clustering.
type Thesis struct {
	ID         int32
	Title      string
	StudentID  int32
	Advisor1ID int32
	Advisor2ID *int32
	Embedding  []float32
}

// ThesisDetail is the read projection of a thesis joined with student and
// advisor names, constructed at the storage boundary.
type ThesisDetail struct {
	ID           int32
	Title        string
	StudentID    int32
	StudentName  string
	Advisor1ID   int32
	Advisor1Name string
	Advisor2ID   *int32
	Advisor2Name *string
	Embedding    []float32
}

type FindThesis struct {
	ID        *int32
	StudentID *int32
	// AdvisorID matches theses where the professor is either advisor.
	AdvisorID *int32
	// HasEmbedding filters on embedding presence: true keeps only items with a
	// stored vector, false keeps only items still waiting for population.
	HasEmbedding *bool
}

func (s *Store) UpsertThesis(ctx context.Context, upsert *Thesis) (*Thesis, error) {
	return s.driver.UpsertThesis(ctx, upsert)
}

func (s *Store) ListThesisDetails(ctx context.Context, find *FindThesis) ([]*ThesisDetail, error) {
	return s.driver.ListThesisDetails(ctx, find)
}

// GetThesisDetail returns one thesis with its embedding, or nil when absent.
func (s *Store) GetThesisDetail(ctx context.Context, id int32) (*ThesisDetail, error) {
	list, err := s.driver.ListThesisDetails(ctx, &FindThesis{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateThesisEmbedding persists the embedding for one thesis.
// Population-job use only; request-time code never writes vectors.
func (s *Store) UpdateThesisEmbedding(ctx context.Context, id int32, embedding []float32) error {
	return s.driver.UpdateThesisEmbedding(ctx, id, embedding)
}
