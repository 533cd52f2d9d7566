package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/gopher-golf/internal/round"
)

// SortKey represents the available sorting columns
type SortKey string

const (
	SortByDate         SortKey = "date"
	SortByCourse       SortKey = "course_name"
	SortByScore        SortKey = "final_score"
	SortByDifferential SortKey = "score_differential"
)

// Sort is a column and direction
type Sort struct {
	Key  SortKey `json:"key"`
	Desc bool    `json:"desc"`
}

// DefaultSort lists the newest rounds first
var DefaultSort = Sort{Key: SortByDate, Desc: true}

// ParseSort reads a sort key and a direction ("asc" or "desc"). A blank key
// gives DefaultSort; a blank direction sorts ascending.
func ParseSort(key, dir string) (Sort, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	dir = strings.ToLower(strings.TrimSpace(dir))

	if key == "" {
		if dir == "" {
			return DefaultSort, nil
		}
		key = string(SortByDate)
	}

	s := Sort{Key: SortKey(key)}
	switch s.Key {
	case SortByDate, SortByCourse, SortByScore, SortByDifferential:
	default:
		return Sort{}, fmt.Errorf("invalid sort key %q", key)
	}

	switch dir {
	case "", "asc":
	case "desc":
		s.Desc = true
	default:
		return Sort{}, fmt.Errorf("invalid sort direction %q", dir)
	}

	return s, nil
}

// Apply sorts rounds in place. Rounds missing the sort value go last in
// either direction; ties keep their input order.
func (s Sort) Apply(rounds []*round.Round) {
	sort.SliceStable(rounds, func(i, j int) bool {
		c, ok := s.compare(rounds[i], rounds[j])
		if !ok {
			return false
		}
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

// compare orders a and b by the sort key. ok is false when both values are
// absent. A single absent value compares so that it ends up last after the
// Desc inversion in Apply.
func (s Sort) compare(a, b *round.Round) (int, bool) {
	switch s.Key {
	case SortByCourse:
		return strings.Compare(strings.ToLower(a.CourseName), strings.ToLower(b.CourseName)), true
	case SortByScore:
		return s.comparePresent(toFloat(a.FinalScore), toFloat(b.FinalScore))
	case SortByDifferential:
		return s.comparePresent(a.ScoreDifferential, b.ScoreDifferential)
	default:
		da, db := a.ParsedDate(), b.ParsedDate()
		switch {
		case da.IsZero() && db.IsZero():
			return 0, false
		case da.IsZero():
			return s.last(), true
		case db.IsZero():
			return -s.last(), true
		}
		return da.Compare(db), true
	}
}

func (s Sort) comparePresent(a, b *float64) (int, bool) {
	switch {
	case a == nil && b == nil:
		return 0, false
	case a == nil:
		return s.last(), true
	case b == nil:
		return -s.last(), true
	case *a < *b:
		return -1, true
	case *a > *b:
		return 1, true
	}
	return 0, true
}

// last is the comparison result that moves the left operand to the end
func (s Sort) last() int {
	if s.Desc {
		return -1
	}
	return 1
}

func toFloat(n *int) *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}
