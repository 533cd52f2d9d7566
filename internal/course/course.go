package course

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pfrederiksen/gopher-golf/internal/round"
)

// Slope ratings outside this range are rejected when adding a course.
const (
	MinSlope = 55
	MaxSlope = 155
)

// ErrInvalidCourse is wrapped by every validation failure.
var ErrInvalidCourse = errors.New("invalid course")

// Tee is one set of tees with its ratings
type Tee struct {
	TeeName      string  `json:"tee_name"`
	CourseRating float64 `json:"course_rating"`
	SlopeRating  int     `json:"slope_rating"`
}

// Course is a golf course with all of its tees
type Course struct {
	ID            string `json:"id,omitempty"`
	CourseName    string `json:"course_name"`
	City          string `json:"city"`
	State         string `json:"state"`
	Website       string `json:"website,omitempty"`
	PublicPrivate string `json:"public_private,omitempty"`
	Tees          []Tee  `json:"tees"`
}

// Row is a single stored tee row of the golf_courses table
type Row struct {
	ID            string
	CourseName    string
	City          string
	State         string
	Website       string
	PublicPrivate string
	Tee
}

// Validate checks a course before it is added to the catalog and normalizes
// its tee names.
func (c *Course) Validate() error {
	c.CourseName = strings.TrimSpace(c.CourseName)
	c.City = strings.TrimSpace(c.City)
	c.State = strings.ToUpper(strings.TrimSpace(c.State))
	c.Website = strings.TrimSpace(c.Website)

	switch {
	case c.CourseName == "":
		return fmt.Errorf("%w: course name is required", ErrInvalidCourse)
	case c.City == "":
		return fmt.Errorf("%w: city is required", ErrInvalidCourse)
	case c.State == "":
		return fmt.Errorf("%w: state is required", ErrInvalidCourse)
	case len(c.Tees) == 0:
		return fmt.Errorf("%w: at least one tee is required", ErrInvalidCourse)
	}

	for i := range c.Tees {
		tee := &c.Tees[i]
		tee.TeeName = NormalizeTeeName(tee.TeeName)
		if tee.TeeName == "" {
			return fmt.Errorf("%w: tee %d has no name", ErrInvalidCourse, i+1)
		}
		if tee.CourseRating <= 0 {
			return fmt.Errorf("%w: %s tee course rating must be positive", ErrInvalidCourse, tee.TeeName)
		}
		if tee.SlopeRating < MinSlope || tee.SlopeRating > MaxSlope {
			return fmt.Errorf("%w: %s tee slope %d outside %d-%d", ErrInvalidCourse, tee.TeeName, tee.SlopeRating, MinSlope, MaxSlope)
		}
	}

	return nil
}

// Rows flattens the course into one row per tee
func (c *Course) Rows() []Row {
	rows := make([]Row, 0, len(c.Tees))
	for _, tee := range c.Tees {
		rows = append(rows, Row{
			CourseName:    c.CourseName,
			City:          c.City,
			State:         c.State,
			Website:       c.Website,
			PublicPrivate: c.PublicPrivate,
			Tee:           tee,
		})
	}
	return rows
}

// FindTee returns the tee with the given name (case-insensitive), or the
// first tee when name is empty. Returns nil when nothing matches.
func (c *Course) FindTee(name string) *Tee {
	if len(c.Tees) == 0 {
		return nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &c.Tees[0]
	}
	for i := range c.Tees {
		if strings.EqualFold(c.Tees[i].TeeName, name) {
			return &c.Tees[i]
		}
	}
	return nil
}

// Prefill copies course details and the chosen tee's ratings into the blank
// fields of a round form.
func (c *Course) Prefill(f round.Form, teeName string) {
	setBlank(f, "course_name", c.CourseName)
	setBlank(f, "city", c.City)
	setBlank(f, "state", c.State)
	setBlank(f, "website", c.Website)
	if c.ID != "" {
		setBlank(f, "course_id", c.ID)
	}

	tee := c.FindTee(teeName)
	if tee == nil {
		return
	}
	setBlank(f, "tees_played", tee.TeeName)
	setBlank(f, "course_rating", fmt.Sprintf("%g", tee.CourseRating))
	setBlank(f, "slope_rating", fmt.Sprintf("%d", tee.SlopeRating))
}

func setBlank(f round.Form, key, value string) {
	if strings.TrimSpace(f[key]) == "" && value != "" {
		f[key] = value
	}
}

// GroupTees folds tee rows into courses keyed by name, city and state,
// keeping the order in which each course first appears.
func GroupTees(rows []Row) []Course {
	index := make(map[string]int)
	courses := make([]Course, 0)

	for _, row := range rows {
		key := row.CourseName + "-" + row.City + "-" + row.State
		i, ok := index[key]
		if !ok {
			i = len(courses)
			index[key] = i
			courses = append(courses, Course{
				ID:            row.ID,
				CourseName:    row.CourseName,
				City:          row.City,
				State:         row.State,
				Website:       row.Website,
				PublicPrivate: row.PublicPrivate,
				Tees:          []Tee{},
			})
		}
		courses[i].Tees = append(courses[i].Tees, row.Tee)
	}

	return courses
}

// NormalizeTeeName trims and title-cases a tee name ("blue" -> "Blue").
func NormalizeTeeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	return cases.Title(language.English).String(name)
}

// NormalizeQuery lowercases a search query and collapses its whitespace.
// It is both the cache key and the text searched for.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
