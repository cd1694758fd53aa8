package store

import "context"

// Student is a graduate student. A student may be associated with several
// laboratories (many-to-many) and several academic program records.
type Student struct {
	ID         int32
	Name       string
	Email      *string
	ProfileURL *string
}

// StudentDetail is the read projection of a student joined with its academic
// program record.
type StudentDetail struct {
	ID          int32
	Name        string
	Email       *string
	ProfileURL  *string
	Program     *string
	Status      *string
	ThesisTitle *string
	ThesisURL   *string
}

// AcademicProgram is one program enrollment record for a student
// (e.g. a masters program with its status and thesis reference).
type AcademicProgram struct {
	ID          int32
	StudentID   int32
	Program     string
	Status      string
	ThesisTitle *string
	ThesisURL   *string
}

type FindStudent struct {
	ID      *int32
	Program *string
	Status  *string
}

type FindAcademicProgram struct {
	StudentID *int32
}

func (s *Store) UpsertStudent(ctx context.Context, upsert *Student) (*Student, error) {
	return s.driver.UpsertStudent(ctx, upsert)
}

func (s *Store) ListStudentDetails(ctx context.Context, find *FindStudent) ([]*StudentDetail, error) {
	return s.driver.ListStudentDetails(ctx, find)
}

// GetStudentDetail returns one student with academic info, or nil when absent.
func (s *Store) GetStudentDetail(ctx context.Context, id int32) (*StudentDetail, error) {
	list, err := s.driver.ListStudentDetails(ctx, &FindStudent{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpsertStudentLaboratory(ctx context.Context, studentID, laboratoryID int32) error {
	return s.driver.UpsertStudentLaboratory(ctx, studentID, laboratoryID)
}

func (s *Store) ListStudentLaboratories(ctx context.Context, studentID int32) ([]*Laboratory, error) {
	return s.driver.ListStudentLaboratories(ctx, studentID)
}

func (s *Store) UpsertAcademicProgram(ctx context.Context, upsert *AcademicProgram) (*AcademicProgram, error) {
	return s.driver.UpsertAcademicProgram(ctx, upsert)
}

func (s *Store) ListAcademicPrograms(ctx context.Context, find *FindAcademicProgram) ([]*AcademicProgram, error) {
	return s.driver.ListAcademicPrograms(ctx, find)
}
