// Package store provides database access to all raw objects.
package store

import (
	"context"
	"database/sql"

	"github.com/charecktowa/thesis-match/internal/profile"
)

// RecommendationStats summarizes embedding coverage of the corpus.
type RecommendationStats struct {
	ThesesWithEmbeddings           int32
	ResearchProductsWithEmbeddings int32
	ProfessorsWithResearch         int32
	StudentsWithTheses             int32
	MinYear                        *int32
	MaxYear                        *int32
}

// Driver is an interface for database drivers.
type Driver interface {
	GetDB() *sql.DB
	Close() error
	Migrate(ctx context.Context) error

	UpsertLaboratory(ctx context.Context, upsert *Laboratory) (*Laboratory, error)
	ListLaboratories(ctx context.Context) ([]*Laboratory, error)

	UpsertProfessor(ctx context.Context, upsert *Professor) (*Professor, error)
	ListProfessorDetails(ctx context.Context, find *FindProfessor) ([]*ProfessorDetail, error)

	UpsertStudent(ctx context.Context, upsert *Student) (*Student, error)
	ListStudentDetails(ctx context.Context, find *FindStudent) ([]*StudentDetail, error)
	UpsertStudentLaboratory(ctx context.Context, studentID, laboratoryID int32) error
	ListStudentLaboratories(ctx context.Context, studentID int32) ([]*Laboratory, error)
	UpsertAcademicProgram(ctx context.Context, upsert *AcademicProgram) (*AcademicProgram, error)
	ListAcademicPrograms(ctx context.Context, find *FindAcademicProgram) ([]*AcademicProgram, error)

	UpsertThesis(ctx context.Context, upsert *Thesis) (*Thesis, error)
	ListThesisDetails(ctx context.Context, find *FindThesis) ([]*ThesisDetail, error)
	UpdateThesisEmbedding(ctx context.Context, id int32, embedding []float32) error

	UpsertResearchProduct(ctx context.Context, upsert *ResearchProduct) (*ResearchProduct, error)
	ListResearchProductDetails(ctx context.Context, find *FindResearchProduct) ([]*ResearchProductDetail, error)
	UpdateResearchProductEmbedding(ctx context.Context, id int32, embedding []float32) error

	RecommendationStats(ctx context.Context) (*RecommendationStats, error)
}

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) RecommendationStats(ctx context.Context) (*RecommendationStats, error) {
	return s.driver.RecommendationStats(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}
