package api

import (
	"encoding/json"

	"github.com/pfrederiksen/gopher-golf/internal/course"
)

type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// DifferentialRequest is the body of POST /api/v1/differential. Values may
// be numbers or numeric strings; anything unparsable is absent.
type DifferentialRequest struct {
	FinalScore   json.RawMessage `json:"final_score"`
	CourseRating json.RawMessage `json:"course_rating"`
	SlopeRating  json.RawMessage `json:"slope_rating"`
}

// DifferentialResponse carries null when the differential is undefined.
type DifferentialResponse struct {
	ScoreDifferential *float64 `json:"score_differential"`
}

// HandicapRequest is the body of POST /api/v1/handicap. Null entries are
// ignored.
type HandicapRequest struct {
	Differentials []*float64 `json:"differentials"`
}

// HandicapResponse carries null and "N/A" when no index can be computed.
type HandicapResponse struct {
	HandicapIndex *float64 `json:"handicap_index"`
	Display       string   `json:"display"`
}

// FileRequest is the body of POST /api/v1/rounds/{id}/files.
type FileRequest struct {
	FileURL string `json:"file_url"`
}

// URLRequest is the body of the course fetch endpoints and the stub.
type URLRequest struct {
	URL string `json:"url"`
}

// SearchResponse is the body of GET /api/v1/courses.
type SearchResponse struct {
	Query   string          `json:"query"`
	Courses []course.Course `json:"courses"`
}
