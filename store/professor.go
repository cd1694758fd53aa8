package store

import "context"

// Professor is a faculty member. Every professor belongs to one laboratory.
type Professor struct {
	ID           int32
	Name         string
	Email        *string
	ProfileURL   *string
	LaboratoryID int32
}

// ProfessorDetail is the read projection of a professor joined with its
// laboratory, constructed at the storage boundary so callers never index
// into raw rows.
type ProfessorDetail struct {
	ID             int32
	Name           string
	Email          *string
	ProfileURL     *string
	LaboratoryID   int32
	LaboratoryName string
}

type FindProfessor struct {
	ID           *int32
	LaboratoryID *int32
}

func (s *Store) UpsertProfessor(ctx context.Context, upsert *Professor) (*Professor, error) {
	return s.driver.UpsertProfessor(ctx, upsert)
}

func (s *Store) ListProfessorDetails(ctx context.Context, find *FindProfessor) ([]*ProfessorDetail, error) {
	return s.driver.ListProfessorDetails(ctx, find)
}

// GetProfessorDetail returns one professor with laboratory info, or nil when absent.
func (s *Store) GetProfessorDetail(ctx context.Context, id int32) (*ProfessorDetail, error) {
	list, err := s.driver.ListProfessorDetails(ctx, &FindProfessor{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
