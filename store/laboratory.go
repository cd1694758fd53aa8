package store

import "context"

// Laboratory is a research laboratory within the department.
type Laboratory struct {
	ID   int32
	Name string
}

func (s *Store) UpsertLaboratory(ctx context.Context, upsert *Laboratory) (*Laboratory, error) {
	return s.driver.UpsertLaboratory(ctx, upsert)
}

func (s *Store) ListLaboratories(ctx context.Context) ([]*Laboratory, error) {
	return s.driver.ListLaboratories(ctx)
}
