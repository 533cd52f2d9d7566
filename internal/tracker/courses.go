package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/gopher-golf/internal/course"
	"github.com/pfrederiksen/gopher-golf/internal/logger"
	"github.com/pfrederiksen/gopher-golf/internal/round"
	"github.com/pfrederiksen/gopher-golf/internal/storage"
)

// AddCourse validates a course and adds every tee to the catalog
func (s *Service) AddCourse(ctx context.Context, c *course.Course) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.store.AddCourse(ctx, c); err != nil {
		logger.Error("Failed to add course", logger.Fields{"course": c.CourseName}, err)
		return err
	}
	s.cache.Clear()

	logger.Info("Course added", logger.Fields{
		"course_id": c.ID,
		"course":    c.CourseName,
		"tees":      len(c.Tees),
	})
	logger.IncrCounter("courses.created")
	return nil
}

// SearchCourses finds catalog courses whose name contains query. Results
// are grouped by course and cached until the catalog changes.
func (s *Service) SearchCourses(ctx context.Context, query string) ([]course.Course, error) {
	query = course.NormalizeQuery(query)
	if len([]rune(query)) < MinQueryLength {
		return nil, fmt.Errorf("%w: need at least %d characters", ErrQueryTooShort, MinQueryLength)
	}

	if cached, ok := s.cache.Get(query); ok {
		logger.IncrCounter("courses.search.cache_hit")
		return cached, nil
	}

	// An AddCourse between the query and the store write must not leave
	// stale results cached.
	gen := s.cache.Generation()
	rows, err := s.store.SearchCourses(ctx, query, storage.DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	courses := course.GroupTees(rows)
	s.cache.CleanExpired()
	s.cache.SetIfCurrent(query, courses, gen)
	logger.SetGauge("courses.search.cache_entries", float64(s.cache.Size()))

	logger.Debug("Course search", logger.Fields{"query": query, "results": len(courses)})
	logger.IncrCounter("courses.search.cache_miss")
	return courses, nil
}

// CourseNames returns every course name in the catalog
func (s *Service) CourseNames(ctx context.Context) ([]string, error) {
	return s.store.CourseNames(ctx)
}

// TeesForCourse returns the tees of the course with exactly this name
func (s *Service) TeesForCourse(ctx context.Context, name string) ([]course.Tee, error) {
	rows, err := s.store.TeesForCourse(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	tees := make([]course.Tee, 0, len(rows))
	for _, row := range rows {
		tees = append(tees, row.Tee)
	}
	return tees, nil
}

// PrefillRound fills blank course fields of a round form from the catalog
// entry named by the form's course_name and the requested tee. It reports
// whether a catalog course was found.
func (s *Service) PrefillRound(ctx context.Context, f round.Form, teeName string) (bool, error) {
	name := strings.TrimSpace(f["course_name"])
	if name == "" {
		return false, nil
	}

	rows, err := s.store.TeesForCourse(ctx, name)
	if err != nil {
		return false, err
	}
	courses := course.GroupTees(rows)
	if len(courses) == 0 {
		return false, nil
	}

	courses[0].Prefill(f, teeName)
	return true, nil
}

// FetchCourse retrieves course data for a page URL through the scrape endpoint
func (s *Service) FetchCourse(ctx context.Context, pageURL string) (*course.Course, error) {
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}

	c, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Warn("Course fetch failed", logger.Fields{"url": pageURL, "error": err.Error()})
		logger.IncrCounter("courses.fetch.errors")
		return nil, err
	}

	logger.IncrCounter("courses.fetch.ok")
	return c, nil
}

// ImportCourse fetches a course and adds it to the catalog
func (s *Service) ImportCourse(ctx context.Context, pageURL string) (*course.Course, error) {
	c, err := s.FetchCourse(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if err := s.AddCourse(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
