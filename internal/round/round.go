package round

import (
	"time"

	"github.com/pfrederiksen/gopher-golf/internal/handicap"
)

// Score types accepted on a round.
const (
	ScoreTypeHome         = "Home"
	ScoreTypeAway         = "Away"
	ScoreTypeChampionship = "Championship"
)

// DateLayout is the storage format of Round.Date.
const DateLayout = "2006-01-02"

// Round is one recorded round of golf. Nil pointers are absent values.
type Round struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id,omitempty"`
	CourseID          string    `json:"course_id,omitempty"`
	Date              string    `json:"date"`
	CourseName        string    `json:"course_name"`
	City              string    `json:"city,omitempty"`
	State             string    `json:"state,omitempty"`
	Website           string    `json:"website,omitempty"`
	TeesPlayed        string    `json:"tees_played,omitempty"`
	CourseRating      *float64  `json:"course_rating"`
	SlopeRating       *int      `json:"slope_rating"`
	FinalScore        *int      `json:"final_score"`
	NumHolesPlayed    *int      `json:"num_holes_played"`
	Par               *int      `json:"par"`
	Putts             *int      `json:"putts"`
	FairwaysHit       *int      `json:"fairways_hit"`
	GreensInReg       *int      `json:"greens_in_reg"`
	Penalties         *int      `json:"penalties"`
	ScoreType         string    `json:"score_type,omitempty"`
	ScoreDifferential *float64  `json:"score_differential"`
	HoleScores        []int     `json:"hole_scores,omitempty"`
	PlayingPartners   string    `json:"playing_partners,omitempty"`
	CourseNotes       string    `json:"course_notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// HasDifferentialInputs reports whether score, rating and slope are present.
func (r *Round) HasDifferentialInputs() bool {
	return r.FinalScore != nil && r.CourseRating != nil && r.SlopeRating != nil
}

// Differential recomputes the round's differential from its inputs.
func (r *Round) Differential(calc handicap.Calculator) (float64, bool) {
	if !r.HasDifferentialInputs() {
		return 0, false
	}
	return calc.Differential(*r.FinalScore, *r.CourseRating, *r.SlopeRating)
}

// ApplyDifferential sets ScoreDifferential when every input of the round
// entry form is present, including the holes played. A manually entered
// differential is kept when any of them is missing.
func (r *Round) ApplyDifferential(calc handicap.Calculator) {
	if !r.HasDifferentialInputs() || r.NumHolesPlayed == nil {
		return
	}
	if d, ok := r.Differential(calc); ok {
		r.ScoreDifferential = &d
	} else {
		r.ScoreDifferential = nil
	}
}

// IsNineHole reports whether the round covered nine holes or fewer.
func (r *Round) IsNineHole() bool {
	return r.NumHolesPlayed != nil && *r.NumHolesPlayed > 0 && *r.NumHolesPlayed <= 9
}

// ParsedDate returns Date as a time, or the zero time if it is malformed.
func (r *Round) ParsedDate() time.Time {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// File is an attachment (scorecard photo, GPS export) linked to a round
type File struct {
	ID         string    `json:"id"`
	RoundID    string    `json:"round_id"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}
