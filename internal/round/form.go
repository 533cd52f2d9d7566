package round

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDate        = errors.New("invalid round date")
	ErrCourseNameRequired = errors.New("course name is required")
)

// Form holds the raw textual fields of a round entry form, keyed by column name.
type Form map[string]string

// ParseOptionalInt parses a user-entered integer. Blank or invalid input is absent.
func ParseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ParseOptionalFloat parses a user-entered decimal. Blank, invalid or
// non-finite input is absent.
func ParseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func (f Form) text(key string) string {
	return strings.TrimSpace(f[key])
}

// ParseForm sanitizes a Form into a Round. A blank date defaults to the day
// of now. The returned round has no ID and no differential applied.
func ParseForm(f Form, now time.Time) (*Round, error) {
	r := &Round{
		UserID:          f.text("user_id"),
		CourseID:        f.text("course_id"),
		CourseName:      f.text("course_name"),
		City:            f.text("city"),
		State:           f.text("state"),
		Website:         f.text("website"),
		TeesPlayed:      f.text("tees_played"),
		PlayingPartners: f.text("playing_partners"),
		CourseNotes:     f.text("course_notes"),
	}

	if r.CourseName == "" {
		return nil, ErrCourseNameRequired
	}

	date := f.text("date")
	if date == "" {
		date = now.Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	r.Date = date

	r.CourseRating = ParseOptionalFloat(f["course_rating"])
	r.ScoreDifferential = ParseOptionalFloat(f["score_differential"])
	r.SlopeRating = ParseOptionalInt(f["slope_rating"])
	r.FinalScore = ParseOptionalInt(f["final_score"])
	r.NumHolesPlayed = ParseOptionalInt(f["num_holes_played"])
	r.Putts = ParseOptionalInt(f["putts"])
	r.FairwaysHit = ParseOptionalInt(f["fairways_hit"])
	r.GreensInReg = ParseOptionalInt(f["greens_in_reg"])
	r.Penalties = ParseOptionalInt(f["penalties"])
	r.Par = ParseOptionalInt(f["par"])

	r.ScoreType = parseScoreType(f.text("score_type"))
	r.HoleScores = parseHoleScores(f.text("hole_scores"))

	return r, nil
}

func parseScoreType(s string) string {
	switch s {
	case ScoreTypeHome, ScoreTypeAway, ScoreTypeChampionship:
		return s
	}
	return ""
}

// parseHoleScores accepts a JSON array of integers or a comma separated list.
func parseHoleScores(s string) []int {
	if s == "" {
		return nil
	}

	var scores []int
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &scores); err != nil {
			return nil
		}
	} else {
		for _, part := range strings.Split(s, ",") {
			n := ParseOptionalInt(part)
			if n == nil {
				return nil
			}
			scores = append(scores, *n)
		}
	}

	if len(scores) == 0 {
		return nil
	}
	return scores
}
