package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/pfrederiksen/gopher-golf/internal/handicap"
	"github.com/pfrederiksen/gopher-golf/internal/round"
)

// TrendPoint is one round on the score trend
type TrendPoint struct {
	Date              string   `json:"date"`
	CourseName        string   `json:"course_name"`
	FinalScore        int      `json:"final_score"`
	ScoreDifferential *float64 `json:"score_differential"`
}

// Summary is the dashboard view of a player's rounds
type Summary struct {
	Handicap      string         `json:"handicap"`
	HandicapIndex *float64       `json:"handicap_index"`
	TotalRounds   int            `json:"total_rounds"`
	BestScore     *int           `json:"best_score"`
	AverageScore  string         `json:"average_score"`
	Tees          []string       `json:"tees"`
	Courses       []string       `json:"courses"`
	Filter        Filter         `json:"filter"`
	Sort          Sort           `json:"sort"`
	Rounds        []*round.Round `json:"rounds"`
	Trend         []TrendPoint   `json:"trend"`
}

// Differentials recomputes the differential of every eligible round.
// Rounds without score, rating and slope are skipped, as are nine-hole
// rounds when the policy excludes them.
func Differentials(rounds []*round.Round, policy handicap.Policy) []float64 {
	diffs := make([]float64, 0, len(rounds))
	for _, r := range rounds {
		if policy.ExcludeNineHole && r.IsNineHole() {
			continue
		}
		if d, ok := r.Differential(policy.Calculator); ok {
			diffs = append(diffs, d)
		}
	}
	return diffs
}

// HandicapIndex computes the player's index over all eligible rounds
func HandicapIndex(rounds []*round.Round, policy handicap.Policy) (float64, bool) {
	return policy.HandicapIndex(Differentials(rounds, policy))
}

// Build assembles the dashboard. Statistics, option lists and the handicap
// cover every round; the list and trend reflect the filter. The input slice
// is not modified.
func Build(rounds []*round.Round, policy handicap.Policy, f Filter, s Sort) *Summary {
	sum := &Summary{
		TotalRounds: len(rounds),
		Tees:        distinct(rounds, func(r *round.Round) string { return r.TeesPlayed }),
		Courses:     distinct(rounds, func(r *round.Round) string { return r.CourseName }),
		Filter:      f,
		Sort:        s,
	}

	index, ok := HandicapIndex(rounds, policy)
	sum.Handicap = handicap.Display(index, ok)
	if ok {
		sum.HandicapIndex = &index
	}

	sum.BestScore, sum.AverageScore = scoreStats(rounds)

	listed := f.Apply(rounds)
	s.Apply(listed)
	sum.Rounds = listed
	sum.Trend = Trend(listed)

	return sum
}

// scoreStats returns the lowest score and the mean over scored rounds,
// formatted to one decimal place.
func scoreStats(rounds []*round.Round) (*int, string) {
	var (
		best  *int
		total int64
		n     int64
	)
	for _, r := range rounds {
		if r.FinalScore == nil {
			continue
		}
		if best == nil || *r.FinalScore < *best {
			v := *r.FinalScore
			best = &v
		}
		total += int64(*r.FinalScore)
		n++
	}

	if n == 0 {
		return nil, handicap.NotAvailable
	}
	avg := decimal.NewFromInt(total).Div(decimal.NewFromInt(n))
	return best, avg.StringFixed(1)
}

// Trend returns the scored, dated rounds in ascending date order
func Trend(rounds []*round.Round) []TrendPoint {
	dated := make([]*round.Round, 0, len(rounds))
	for _, r := range rounds {
		if r.FinalScore != nil && !r.ParsedDate().IsZero() {
			dated = append(dated, r)
		}
	}
	Sort{Key: SortByDate}.Apply(dated)

	points := make([]TrendPoint, 0, len(dated))
	for _, r := range dated {
		points = append(points, TrendPoint{
			Date:              r.Date,
			CourseName:        r.CourseName,
			FinalScore:        *r.FinalScore,
			ScoreDifferential: r.ScoreDifferential,
		})
	}
	return points
}

func distinct(rounds []*round.Round, field func(*round.Round) string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, r := range rounds {
		v := field(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
