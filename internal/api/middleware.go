package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/gopher-golf/internal/logger"
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestIDHeader carries the request ID. A valid incoming value is reused.
const RequestIDHeader = "X-Request-ID"

func requestID(r *http.Request) string {
	if id, err := uuid.Parse(r.Header.Get(RequestIDHeader)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// logRequests logs every request with its status and duration and feeds
// the request metrics.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := requestID(r)
		w.Header().Set(RequestIDHeader, id)
		log := logger.Default().With(logger.Fields{"request_id": id})
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		fields := logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": elapsed.Milliseconds(),
		}
		if rec.status >= http.StatusInternalServerError {
			log.Warn("HTTP request", fields)
		} else {
			log.Debug("HTTP request", fields)
		}

		logger.IncrCounter("http.requests")
		if rec.status >= http.StatusBadRequest {
			logger.IncrCounter("http.errors")
		}
		logger.RecordTiming("http.request", elapsed)
	})
}
