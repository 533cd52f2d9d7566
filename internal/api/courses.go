package api

import (
	"net/http"

	"github.com/pfrederiksen/gopher-golf/internal/course"
)

// searchCourses returns GET /api/v1/courses?q=.
func (h *Handler) searchCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	courses, err := h.svc.SearchCourses(r.Context(), q)
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, SearchResponse{Query: q, Courses: courses})
}

// addCourse returns POST /api/v1/courses.
func (h *Handler) addCourse(w http.ResponseWriter, r *http.Request) {
	var c course.Course
	if !decodeBody(w, r, &c) {
		return
	}

	if err := h.svc.AddCourse(r.Context(), &c); err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusCreated, c)
}

// courseNames returns GET /api/v1/courses/names.
func (h *Handler) courseNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.CourseNames(r.Context())
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, names)
}

// courseTees returns GET /api/v1/courses/tees?name=.
func (h *Handler) courseTees(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		jsonErr(w, http.StatusBadRequest, "name is required")
		return
	}

	tees, err := h.svc.TeesForCourse(r.Context(), name)
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, tees)
}

// fetchCourse returns POST /api/v1/courses/fetch.
func (h *Handler) fetchCourse(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.svc.FetchCourse(r.Context(), req.URL)
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, c)
}

// importCourse returns POST /api/v1/courses/import.
func (h *Handler) importCourse(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.svc.ImportCourse(r.Context(), req.URL)
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusCreated, c)
}
