package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// Store wraps the database connection
type Store struct {
	db     *sql.DB
	driver string
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS golf_courses (
		id TEXT PRIMARY KEY,
		course_name TEXT NOT NULL,
		city TEXT,
		state TEXT,
		website TEXT,
		public_private TEXT,
		tee_name TEXT NOT NULL,
		search_name TEXT NOT NULL DEFAULT '',
		course_rating DOUBLE PRECISION NOT NULL,
		slope_rating INTEGER NOT NULL,
		created_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_golf_courses_name ON golf_courses (course_name)`,
	`CREATE INDEX IF NOT EXISTS idx_golf_courses_search ON golf_courses (search_name)`,
	`CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		course_id TEXT,
		date TEXT NOT NULL,
		course_name TEXT NOT NULL,
		city TEXT,
		state TEXT,
		website TEXT,
		tees_played TEXT,
		course_rating DOUBLE PRECISION,
		slope_rating INTEGER,
		final_score INTEGER,
		num_holes_played INTEGER,
		par INTEGER,
		putts INTEGER,
		fairways_hit INTEGER,
		greens_in_reg INTEGER,
		penalties INTEGER,
		score_type TEXT,
		score_differential DOUBLE PRECISION,
		hole_scores TEXT,
		playing_partners TEXT,
		course_notes TEXT,
		created_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rounds_user ON rounds (user_id)`,
	`CREATE TABLE IF NOT EXISTS round_files (
		id TEXT PRIMARY KEY,
		round_id TEXT REFERENCES rounds(id),
		file_url TEXT NOT NULL,
		uploaded_at TEXT
	)`,
}

// Open connects to the database and creates the schema if needed.
// For sqlite, dsn is a file path (~ is expanded) or ":memory:".
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		expanded, err := prepareSQLitePath(dsn)
		if err != nil {
			return nil, err
		}
		dsn = expanded
	case DriverPostgres:
		if strings.TrimSpace(dsn) == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q (must be %q or %q)", driver, DriverSQLite, DriverPostgres)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if driver == DriverSQLite {
		// One connection keeps :memory: databases alive and serializes writes.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func prepareSQLitePath(dsn string) (string, error) {
	if dsn == "" || strings.Contains(dsn, ":memory:") {
		return ":memory:", nil
	}

	if strings.HasPrefix(dsn, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dsn = filepath.Join(home, dsn[2:])
	}

	if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	return dsn, nil
}

func (s *Store) createTables() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the driver name the store was opened with
func (s *Store) Driver() string {
	return s.driver
}

// rebind converts ? placeholders to $n for postgres
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n *int) interface{} {
	if n == nil {
		return nil
	}
	return int64(*n)
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatFromNull(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
