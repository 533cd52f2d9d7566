package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/gopher-golf/internal/course"
)

// DefaultSearchLimit caps the number of tee rows a search returns
const DefaultSearchLimit = 50

const courseColumns = `id, course_name, city, state, website, public_private, tee_name, course_rating, slope_rating`

// AddCourse inserts one golf_courses row per tee in a single transaction.
// The course ID is set to the ID of its first tee row.
func (s *Store) AddCourse(ctx context.Context, c *course.Course) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	query := s.rebind(`INSERT INTO golf_courses (` + courseColumns + `, search_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	for i, row := range c.Rows() {
		id := uuid.NewString()
		if i == 0 {
			c.ID = id
		}
		_, err := tx.ExecContext(ctx, query,
			id,
			row.CourseName,
			nullString(row.City),
			nullString(row.State),
			nullString(row.Website),
			nullString(row.PublicPrivate),
			row.TeeName,
			row.CourseRating,
			row.SlopeRating,
			foldName(row.CourseName),
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("inserting %s tee: %w", row.TeeName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing course: %w", err)
	}
	return nil
}

// SearchCourses returns tee rows whose course name contains query,
// case-insensitively. Matching runs against search_name, folded in Go at
// insert time, since SQLite's LOWER only folds ASCII. A non-positive limit
// uses DefaultSearchLimit.
func (s *Store) SearchCourses(ctx context.Context, query string, limit int) ([]course.Row, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	pattern := "%" + escapeLike(foldName(strings.TrimSpace(query))) + "%"
	q := s.rebind(`SELECT ` + courseColumns + ` FROM golf_courses
		WHERE search_name LIKE ? ESCAPE '\'
		ORDER BY course_name, city, state, course_rating DESC
		LIMIT ?`)

	return s.queryCourseRows(ctx, q, pattern, limit)
}

// TeesForCourse returns every tee row of the course with exactly this name
func (s *Store) TeesForCourse(ctx context.Context, name string) ([]course.Row, error) {
	q := s.rebind(`SELECT ` + courseColumns + ` FROM golf_courses
		WHERE course_name = ?
		ORDER BY city, state, course_rating DESC`)

	return s.queryCourseRows(ctx, q, name)
}

// CourseNames returns the distinct course names in the catalog, sorted
func (s *Store) CourseNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT course_name FROM golf_courses ORDER BY course_name`)
	if err != nil {
		return nil, fmt.Errorf("listing course names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning course name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course names: %w", err)
	}

	return names, nil
}

func (s *Store) queryCourseRows(ctx context.Context, query string, args ...interface{}) ([]course.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	result := make([]course.Row, 0)
	for rows.Next() {
		var (
			row                          course.Row
			city, state, website, access sql.NullString
		)
		if err := rows.Scan(&row.ID, &row.CourseName, &city, &state, &website, &access,
			&row.TeeName, &row.CourseRating, &row.SlopeRating); err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		row.City = city.String
		row.State = state.String
		row.Website = website.String
		row.PublicPrivate = access.String
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}

	return result, nil
}

// foldName is the case folding shared by search_name and search patterns
func foldName(s string) string {
	return strings.ToLower(s)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
