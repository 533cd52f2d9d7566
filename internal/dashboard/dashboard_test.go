package dashboard

import (
	"testing"

	"github.com/pfrederiksen/gopher-golf/internal/handicap"
	"github.com/pfrederiksen/gopher-golf/internal/round"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func rated(id, date, course, tee string, score int, rating float64, slope, holes int) *round.Round {
	return &round.Round{
		ID:             id,
		Date:           date,
		CourseName:     course,
		TeesPlayed:     tee,
		FinalScore:     intPtr(score),
		CourseRating:   floatPtr(rating),
		SlopeRating:    intPtr(slope),
		NumHolesPlayed: intPtr(holes),
	}
}

func sampleRounds() []*round.Round {
	return []*round.Round{
		rated("a", "2024-04-01", "Pebble Beach", "Blue", 90, 72.0, 113, 18),
		rated("b", "2024-06-01", "Torrey Pines", "White", 85, 71.2, 129, 18),
		rated("c", "2024-05-01", "Pebble Beach", "White", 95, 72.0, 113, 18),
		{ID: "d", Date: "2024-07-01", CourseName: "Practice Range"},
	}
}

func ids(rounds []*round.Round) string {
	s := ""
	for _, r := range rounds {
		s += r.ID
	}
	return s
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"empty filter", Filter{}, "abcd"},
		{"search is case-insensitive", Filter{Search: "PEBBLE"}, "ac"},
		{"tee exact", Filter{Tee: "White"}, "bc"},
		{"tee is not substring", Filter{Tee: "Whi"}, ""},
		{"course exact", Filter{Course: "Torrey Pines"}, "b"},
		{"combined", Filter{Search: "beach", Tee: "White"}, "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.filter.Apply(sampleRounds()))
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}

	if !(Filter{}).IsEmpty() {
		t.Error("zero Filter should be empty")
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		key, dir string
		want     Sort
		wantErr  bool
	}{
		{"", "", DefaultSort, false},
		{"final_score", "", Sort{Key: SortByScore}, false},
		{"COURSE_NAME", "DESC", Sort{Key: SortByCourse, Desc: true}, false},
		{"", "asc", Sort{Key: SortByDate}, false},
		{"par", "", Sort{}, true},
		{"date", "sideways", Sort{}, true},
	}

	for _, tt := range tests {
		got, err := ParseSort(tt.key, tt.dir)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSort(%q, %q) error = %v, wantErr %v", tt.key, tt.dir, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSort(%q, %q) = %+v, want %+v", tt.key, tt.dir, got, tt.want)
		}
	}
}

func TestSortApply(t *testing.T) {
	withDiff := sampleRounds()
	withDiff[0].ScoreDifferential = floatPtr(18.0)
	withDiff[1].ScoreDifferential = floatPtr(12.1)

	tests := []struct {
		name   string
		rounds []*round.Round
		sort   Sort
		want   string
	}{
		{"date descending", sampleRounds(), DefaultSort, "dbca"},
		{"date ascending", sampleRounds(), Sort{Key: SortByDate}, "acbd"},
		{"course ascending is stable", sampleRounds(), Sort{Key: SortByCourse}, "acdb"},
		{"score ascending absent last", sampleRounds(), Sort{Key: SortByScore}, "bacd"},
		{"score descending absent last", sampleRounds(), Sort{Key: SortByScore, Desc: true}, "cabd"},
		{"differential ascending", withDiff, Sort{Key: SortByDifferential}, "bacd"},
		{"differential descending", withDiff, Sort{Key: SortByDifferential, Desc: true}, "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.sort.Apply(tt.rounds)
			if got := ids(tt.rounds); got != tt.want {
				t.Errorf("Apply() order = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortInvalidDatesLast(t *testing.T) {
	rounds := []*round.Round{
		{ID: "x", Date: "not-a-date", CourseName: "A"},
		{ID: "y", Date: "2024-01-01", CourseName: "B"},
	}
	DefaultSort.Apply(rounds)
	if got := ids(rounds); got != "yx" {
		t.Errorf("order = %q, want %q", got, "yx")
	}
}

func TestHandicapIndex(t *testing.T) {
	var rounds []*round.Round
	for i, d := range []float64{10, 12, 14, 16, 18, 20, 22, 24, 30, 32} {
		// Slope 113 and rating 70 make the differential score - 70.
		r := rated(string(rune('a'+i)), "2024-01-01", "Course", "Blue", 70+int(d), 70, 113, 18)
		rounds = append(rounds, r)
	}

	got, ok := HandicapIndex(rounds, handicap.DefaultPolicy)
	if !ok || got != 16.3 {
		t.Errorf("HandicapIndex() = %v, %v, want 16.3, true", got, ok)
	}

	if _, ok := HandicapIndex(nil, handicap.DefaultPolicy); ok {
		t.Error("HandicapIndex(nil) should be absent")
	}
}

func TestHandicapRecomputesDifferentials(t *testing.T) {
	r := rated("a", "2024-01-01", "Course", "Blue", 90, 72.0, 113, 18)
	// A stale stored value is ignored in favour of the inputs.
	r.ScoreDifferential = floatPtr(1.0)

	got, ok := HandicapIndex([]*round.Round{r}, handicap.DefaultPolicy)
	if !ok || got != 17.2 {
		t.Errorf("HandicapIndex() = %v, %v, want 17.2, true", got, ok)
	}
}

func TestNineHolePolicy(t *testing.T) {
	rounds := []*round.Round{
		rated("a", "2024-01-01", "Course", "Blue", 90, 72.0, 113, 18),
		rated("b", "2024-01-02", "Course", "Blue", 40, 35.0, 113, 9),
	}

	include, _ := HandicapIndex(rounds, handicap.DefaultPolicy)
	if include != 11.0 {
		t.Errorf("include policy = %v, want 11.0", include)
	}

	exclude, _ := HandicapIndex(rounds, handicap.Policy{Calculator: handicap.Default, ExcludeNineHole: true})
	if exclude != 17.2 {
		t.Errorf("exclude policy = %v, want 17.2", exclude)
	}
}

func TestBuild(t *testing.T) {
	rounds := sampleRounds()
	sum := Build(rounds, handicap.DefaultPolicy, Filter{Search: "pebble"}, Sort{Key: SortByScore})

	if sum.TotalRounds != 4 {
		t.Errorf("TotalRounds = %d, want 4", sum.TotalRounds)
	}
	if sum.BestScore == nil || *sum.BestScore != 85 {
		t.Errorf("BestScore = %v, want 85", sum.BestScore)
	}
	if sum.AverageScore != "90.0" {
		t.Errorf("AverageScore = %q, want %q", sum.AverageScore, "90.0")
	}
	// Differentials 18.0, 12.1, 23.0 -> lowest 3 -> 53.1 * 0.96 / 3 = 16.992
	if sum.Handicap != "16.9" {
		t.Errorf("Handicap = %q, want %q (filter must not apply)", sum.Handicap, "16.9")
	}
	if sum.HandicapIndex == nil || *sum.HandicapIndex != 16.9 {
		t.Errorf("HandicapIndex = %v, want 16.9", sum.HandicapIndex)
	}
	if got := ids(sum.Rounds); got != "ac" {
		t.Errorf("Rounds = %q, want %q", got, "ac")
	}
	if len(sum.Tees) != 2 || sum.Tees[0] != "Blue" || sum.Tees[1] != "White" {
		t.Errorf("Tees = %v, want [Blue White]", sum.Tees)
	}
	if len(sum.Courses) != 3 {
		t.Errorf("Courses = %v, want 3 entries", sum.Courses)
	}
	if len(sum.Trend) != 2 || sum.Trend[0].Date != "2024-04-01" || sum.Trend[1].FinalScore != 95 {
		t.Errorf("Trend = %+v", sum.Trend)
	}
	if got := ids(rounds); got != "abcd" {
		t.Errorf("input reordered to %q", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	sum := Build(nil, handicap.DefaultPolicy, Filter{}, DefaultSort)

	if sum.Handicap != handicap.NotAvailable {
		t.Errorf("Handicap = %q, want N/A", sum.Handicap)
	}
	if sum.HandicapIndex != nil || sum.BestScore != nil {
		t.Error("absent values should be nil")
	}
	if sum.AverageScore != handicap.NotAvailable {
		t.Errorf("AverageScore = %q, want N/A", sum.AverageScore)
	}
	if sum.Rounds == nil || sum.Trend == nil || sum.Tees == nil {
		t.Error("lists should be empty, not nil")
	}
}

func TestTrend(t *testing.T) {
	rounds := []*round.Round{
		{ID: "late", Date: "2024-09-01", CourseName: "A", FinalScore: intPtr(88)},
		{ID: "unscored", Date: "2024-08-01", CourseName: "B"},
		{ID: "early", Date: "2024-02-01", CourseName: "C", FinalScore: intPtr(92), ScoreDifferential: floatPtr(19.5)},
		{ID: "undated", Date: "", CourseName: "D", FinalScore: intPtr(80)},
	}

	points := Trend(rounds)
	if len(points) != 2 {
		t.Fatalf("len(Trend) = %d, want 2", len(points))
	}
	if points[0].CourseName != "C" || points[1].CourseName != "A" {
		t.Errorf("Trend order = %s, %s", points[0].CourseName, points[1].CourseName)
	}
	if points[0].ScoreDifferential == nil || *points[0].ScoreDifferential != 19.5 {
		t.Errorf("differential not carried: %v", points[0].ScoreDifferential)
	}
}
