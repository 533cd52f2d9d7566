package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pfrederiksen/gopher-golf/internal/dashboard"
	"github.com/pfrederiksen/gopher-golf/internal/round"
)

// listRounds returns GET /api/v1/rounds.
func (h *Handler) listRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.svc.ListRounds(r.Context())
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, rounds)
}

// createRound returns POST /api/v1/rounds. Blank course fields are filled
// from the catalog when the course name matches a stored course.
func (h *Handler) createRound(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeForm(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.PrefillRound(r.Context(), f, f["tees_played"]); err != nil {
		serviceErr(w, r, err)
		return
	}

	created, err := h.svc.AddRound(r.Context(), f)
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusCreated, created)
}

// getRound returns GET /api/v1/rounds/{id}.
func (h *Handler) getRound(w http.ResponseWriter, r *http.Request) {
	rd, err := h.svc.GetRound(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, rd)
}

// updateRound returns PUT /api/v1/rounds/{id}.
func (h *Handler) updateRound(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeForm(w, r)
	if !ok {
		return
	}

	updated, err := h.svc.UpdateRound(r.Context(), r.PathValue("id"), f)
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, updated)
}

// deleteRound returns DELETE /api/v1/rounds/{id}.
func (h *Handler) deleteRound(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRound(r.Context(), r.PathValue("id")); err != nil {
		serviceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listFiles returns GET /api/v1/rounds/{id}/files.
func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.ListRoundFiles(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, files)
}

// addFile returns POST /api/v1/rounds/{id}/files.
func (h *Handler) addFile(w http.ResponseWriter, r *http.Request) {
	var req FileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FileURL) == "" {
		jsonErr(w, http.StatusBadRequest, "file_url is required")
		return
	}

	f, err := h.svc.AddRoundFile(r.Context(), r.PathValue("id"), req.FileURL)
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusCreated, f)
}

// dashboard returns GET /api/v1/dashboard?search=&tee=&course=&sort=&dir=.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sort, err := dashboard.ParseSort(q.Get("sort"), q.Get("dir"))
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := dashboard.Filter{
		Search: q.Get("search"),
		Tee:    q.Get("tee"),
		Course: q.Get("course"),
	}

	summary, err := h.svc.Dashboard(r.Context(), filter, sort)
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, summary)
}

// recompute returns POST /api/v1/recompute.
func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Recompute(r.Context())
	if err != nil {
		serviceErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, res)
}

// decodeForm reads a JSON object into a round form. Strings are taken as
// typed, numbers and arrays keep their JSON text and null becomes blank.
func decodeForm(w http.ResponseWriter, r *http.Request) (round.Form, bool) {
	var raw map[string]json.RawMessage
	if !decodeBody(w, r, &raw) {
		return nil, false
	}

	f := make(round.Form, len(raw))
	for key, value := range raw {
		text, err := formValue(value)
		if err != nil {
			jsonErr(w, http.StatusBadRequest, fmt.Sprintf("field %s: %v", key, err))
			return nil, false
		}
		f[key] = text
	}
	return f, true
}

func formValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case raw[0] == '{':
		return "", fmt.Errorf("objects are not accepted")
	default:
		return string(raw), nil
	}
}
