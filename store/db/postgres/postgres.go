package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/charecktowa/thesis-match/internal/profile"
	"github.com/charecktowa/thesis-match/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a PostgreSQL database using the DSN from the profile.
// Vector columns require the pgvector extension; Migrate creates it.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	pgDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := DB{db: pgDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

var migrationStmts = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS laboratories (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS professors (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		profile_url TEXT,
		laboratory_id INTEGER NOT NULL REFERENCES laboratories (id)
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		profile_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS student_laboratories (
		student_id INTEGER NOT NULL REFERENCES students (id),
		laboratory_id INTEGER NOT NULL REFERENCES laboratories (id),
		PRIMARY KEY (student_id, laboratory_id)
	)`,
	`CREATE TABLE IF NOT EXISTS academic_programs (
		id SERIAL PRIMARY KEY,
		student_id INTEGER NOT NULL REFERENCES students (id),
		program TEXT NOT NULL,
		status TEXT NOT NULL,
		thesis_title TEXT,
		thesis_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS theses (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		student_id INTEGER NOT NULL REFERENCES students (id),
		advisor1_id INTEGER NOT NULL REFERENCES professors (id),
		advisor2_id INTEGER REFERENCES professors (id),
		embedding vector(1024)
	)`,
	`CREATE TABLE IF NOT EXISTS research_products (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		site TEXT NOT NULL,
		year INTEGER NOT NULL,
		professor_id INTEGER NOT NULL REFERENCES professors (id),
		embedding vector(1024)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_research_products_year ON research_products (year)`,
	`CREATE INDEX IF NOT EXISTS idx_research_products_professor ON research_products (professor_id)`,
}

// Migrate creates the schema. Statements are idempotent so repeated runs are safe.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrationStmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute migration statement: %s", strings.Fields(stmt)[2])
		}
	}
	return nil
}

// placeholder returns the parameter placeholder for the n-th argument (1-based).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns "$1, $2, ..., $n".
func placeholders(n int) string {
	list := make([]string, n)
	for i := range list {
		list[i] = placeholder(i + 1)
	}
	return strings.Join(list, ", ")
}
