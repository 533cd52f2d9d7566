package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pfrederiksen/gopher-golf/internal/course"
	"github.com/pfrederiksen/gopher-golf/internal/logger"
)

// ScrapeCourse serves the course-data stub: it answers a {"url": ...} body
// with the fixed course payload. Nothing is retrieved from the URL.
func ScrapeCourse(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.Error("Error scraping course", nil, err)
		jsonErr(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		jsonErr(w, http.StatusBadRequest, "Missing course URL")
		return
	}

	logger.IncrCounter("stub.scrapes")
	jsonResp(w, http.StatusOK, course.Stub(req.URL))
}

// NewStub returns a handler serving only POST /scrape-course and /health,
// for running the stub as its own process.
func NewStub() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/scrape-course", ScrapeCourse)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		jsonResp(w, http.StatusOK, HealthResponse{Status: "ok"})
	})
	return logRequests(mux)
}
