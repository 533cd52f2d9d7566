package dashboard

import (
	"strings"

	"github.com/pfrederiksen/gopher-golf/internal/round"
)

// Filter narrows the round list. Empty fields match everything.
type Filter struct {
	Search string `json:"search,omitempty"` // Case-insensitive substring of the course name
	Tee    string `json:"tee,omitempty"`    // Exact tees played
	Course string `json:"course,omitempty"` // Exact course name
}

// Match reports whether r passes every criterion of the filter
func (f Filter) Match(r *round.Round) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(r.CourseName), strings.ToLower(f.Search)) {
		return false
	}
	if f.Tee != "" && r.TeesPlayed != f.Tee {
		return false
	}
	if f.Course != "" && r.CourseName != f.Course {
		return false
	}
	return true
}

// Apply returns the rounds that match, in their original order
func (f Filter) Apply(rounds []*round.Round) []*round.Round {
	if f.IsEmpty() {
		return append(make([]*round.Round, 0, len(rounds)), rounds...)
	}

	matched := make([]*round.Round, 0, len(rounds))
	for _, r := range rounds {
		if f.Match(r) {
			matched = append(matched, r)
		}
	}
	return matched
}

// IsEmpty returns true if no criteria are set
func (f Filter) IsEmpty() bool {
	return f.Search == "" && f.Tee == "" && f.Course == ""
}
