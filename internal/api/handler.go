package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pfrederiksen/gopher-golf/internal/course"
	"github.com/pfrederiksen/gopher-golf/internal/dashboard"
	"github.com/pfrederiksen/gopher-golf/internal/handicap"
	"github.com/pfrederiksen/gopher-golf/internal/logger"
	"github.com/pfrederiksen/gopher-golf/internal/round"
	"github.com/pfrederiksen/gopher-golf/internal/tracker"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Service is the part of the tracker the API serves
type Service interface {
	Policy() handicap.Policy

	AddRound(ctx context.Context, f round.Form) (*round.Round, error)
	UpdateRound(ctx context.Context, id string, f round.Form) (*round.Round, error)
	GetRound(ctx context.Context, id string) (*round.Round, error)
	DeleteRound(ctx context.Context, id string) error
	ListRounds(ctx context.Context) ([]*round.Round, error)
	PrefillRound(ctx context.Context, f round.Form, teeName string) (bool, error)
	AddRoundFile(ctx context.Context, roundID, fileURL string) (*round.File, error)
	ListRoundFiles(ctx context.Context, roundID string) ([]*round.File, error)
	Dashboard(ctx context.Context, f dashboard.Filter, s dashboard.Sort) (*dashboard.Summary, error)
	Recompute(ctx context.Context) (tracker.RecomputeResult, error)

	AddCourse(ctx context.Context, c *course.Course) error
	SearchCourses(ctx context.Context, query string) ([]course.Course, error)
	CourseNames(ctx context.Context) ([]string, error)
	TeesForCourse(ctx context.Context, name string) ([]course.Tee, error)
	FetchCourse(ctx context.Context, pageURL string) (*course.Course, error)
	ImportCourse(ctx context.Context, pageURL string) (*course.Course, error)
}

// Handler is the HTTP handler for all endpoints
type Handler struct {
	svc Service
	mux *http.ServeMux
}

// New creates a Handler wired to svc, registers all routes and wraps them
// in request logging.
func New(svc Service) http.Handler {
	h := &Handler{svc: svc, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /health", h.health)
	h.mux.HandleFunc("GET /metrics", h.metrics)

	h.mux.HandleFunc("GET /api/v1/rounds", h.listRounds)
	h.mux.HandleFunc("POST /api/v1/rounds", h.createRound)
	h.mux.HandleFunc("GET /api/v1/rounds/{id}", h.getRound)
	h.mux.HandleFunc("PUT /api/v1/rounds/{id}", h.updateRound)
	h.mux.HandleFunc("DELETE /api/v1/rounds/{id}", h.deleteRound)
	h.mux.HandleFunc("GET /api/v1/rounds/{id}/files", h.listFiles)
	h.mux.HandleFunc("POST /api/v1/rounds/{id}/files", h.addFile)
	h.mux.HandleFunc("GET /api/v1/dashboard", h.dashboard)
	h.mux.HandleFunc("POST /api/v1/recompute", h.recompute)

	h.mux.HandleFunc("GET /api/v1/courses", h.searchCourses)
	h.mux.HandleFunc("POST /api/v1/courses", h.addCourse)
	h.mux.HandleFunc("GET /api/v1/courses/names", h.courseNames)
	h.mux.HandleFunc("GET /api/v1/courses/tees", h.courseTees)
	h.mux.HandleFunc("POST /api/v1/courses/fetch", h.fetchCourse)
	h.mux.HandleFunc("POST /api/v1/courses/import", h.importCourse)

	h.mux.HandleFunc("POST /api/v1/differential", h.differential)
	h.mux.HandleFunc("POST /api/v1/handicap", h.handicap)

	h.mux.HandleFunc("/scrape-course", ScrapeCourse)

	return logRequests(h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// health returns GET /health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// metrics returns GET /metrics in the Prometheus text format, or the raw
// snapshot with ?format=json.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "json" {
		jsonResp(w, http.StatusOK, logger.GetMetricsSnapshot())
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	if err := logger.WritePrometheus(w); err != nil {
		logger.Error("Failed to write metrics", nil, err)
	}
}

// differential returns POST /api/v1/differential.
func (h *Handler) differential(w http.ResponseWriter, r *http.Request) {
	var req DifferentialRequest
	if !decodeBody(w, r, &req) {
		return
	}

	score := round.ParseOptionalInt(lenientValue(req.FinalScore))
	rating := round.ParseOptionalFloat(lenientValue(req.CourseRating))
	slope := round.ParseOptionalInt(lenientValue(req.SlopeRating))

	var resp DifferentialResponse
	if score != nil && rating != nil && slope != nil {
		calc := h.svc.Policy().Calculator
		if d, ok := calc.Differential(*score, *rating, *slope); ok {
			resp.ScoreDifferential = &d
		}
	}
	jsonResp(w, http.StatusOK, resp)
}

// lenientValue is formValue with rejected values read as blank
func lenientValue(raw json.RawMessage) string {
	text, err := formValue(raw)
	if err != nil {
		return ""
	}
	return text
}

// handicap returns POST /api/v1/handicap.
func (h *Handler) handicap(w http.ResponseWriter, r *http.Request) {
	var req HandicapRequest
	if !decodeBody(w, r, &req) {
		return
	}

	diffs := make([]float64, 0, len(req.Differentials))
	for _, d := range req.Differentials {
		if d != nil {
			diffs = append(diffs, *d)
		}
	}

	index, ok := h.svc.Policy().HandicapIndex(diffs)
	resp := HandicapResponse{Display: handicap.Display(index, ok)}
	if ok {
		resp.HandicapIndex = &index
	}
	jsonResp(w, http.StatusOK, resp)
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// decodeBody decodes a JSON request body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// serviceErr maps service errors to status codes. Unexpected errors are
// logged and hidden from the client.
func serviceErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		jsonErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, round.ErrInvalidDate),
		errors.Is(err, round.ErrCourseNameRequired),
		errors.Is(err, course.ErrInvalidCourse),
		errors.Is(err, course.ErrMissingURL),
		errors.Is(err, tracker.ErrQueryTooShort):
		jsonErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracker.ErrNoFetcher):
		jsonErr(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("Request failed", logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": w.Header().Get(RequestIDHeader),
		}, err)
		jsonErr(w, http.StatusInternalServerError, "internal server error")
	}
}
