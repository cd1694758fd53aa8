package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/charecktowa/thesis-match/internal/profile"
	"github.com/charecktowa/thesis-match/store"
)

// SQLite is supported for development and testing. Vectors are stored as
// little-endian float32 BLOBs and all similarity math happens in the
// application layer, so the recommendation core behaves identically on
// both drivers.

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a database specified by its database driver name and a
// driver-specific data source name.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// WAL journal mode prevents locking issues; a single connection is
	// optimal for SQLite with WAL. Pragmas use the modernc `_pragma=` form.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

var migrationStmts = []string{
	`CREATE TABLE IF NOT EXISTS laboratories (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS professors (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		profile_url TEXT,
		laboratory_id INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		profile_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS student_laboratories (
		student_id INTEGER NOT NULL,
		laboratory_id INTEGER NOT NULL,
		PRIMARY KEY (student_id, laboratory_id)
	)`,
	`CREATE TABLE IF NOT EXISTS academic_programs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL,
		program TEXT NOT NULL,
		status TEXT NOT NULL,
		thesis_title TEXT,
		thesis_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS theses (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		student_id INTEGER NOT NULL,
		advisor1_id INTEGER NOT NULL,
		advisor2_id INTEGER,
		embedding BLOB
	)`,
	`CREATE TABLE IF NOT EXISTS research_products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		site TEXT NOT NULL,
		year INTEGER NOT NULL,
		professor_id INTEGER NOT NULL,
		embedding BLOB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_research_products_year ON research_products (year)`,
	`CREATE INDEX IF NOT EXISTS idx_research_products_professor ON research_products (professor_id)`,
}

// Migrate creates the schema. Statements are idempotent so repeated runs are safe.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrationStmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to execute migration statement")
		}
	}
	return nil
}

// vectorToBlob converts an optional embedding to a BLOB query argument.
// A nil slice maps to SQL NULL, not a zero vector.
func vectorToBlob(vec []float32) any {
	if vec == nil {
		return nil
	}
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}

// blobToVector parses a nullable BLOB column into a float32 slice.
func blobToVector(blob []byte) ([]float32, error) {
	if blob == nil {
		return nil, nil
	}
	if len(blob)%4 != 0 {
		return nil, errors.Errorf("invalid vector blob length %d", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4 : i*4+4]))
	}
	return vec, nil
}
