package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pfrederiksen/gopher-golf/internal/course"
	"github.com/pfrederiksen/gopher-golf/internal/dashboard"
	"github.com/pfrederiksen/gopher-golf/internal/handicap"
	"github.com/pfrederiksen/gopher-golf/internal/round"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// RoundDetail is a round with its attached files
type RoundDetail struct {
	Round *round.Round  `json:"round"`
	Files []*round.File `json:"files"`
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatOptional prints a one-decimal value or N/A
func formatOptional(v *float64) string {
	if v == nil {
		return handicap.NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// writeRounds outputs a round table
func writeRounds(w io.Writer, rounds []*round.Round, verbose bool) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if verbose {
		fmt.Fprintln(tw, "DATE\tCOURSE\tTEES\tSCORE\tDIFF\tHOLES\tID")
	} else {
		fmt.Fprintln(tw, "DATE\tCOURSE\tTEES\tSCORE\tDIFF")
	}
	for _, r := range rounds {
		if verbose {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Date, r.CourseName, r.TeesPlayed, formatInt(r.FinalScore),
				formatOptional(r.ScoreDifferential), formatInt(r.NumHolesPlayed), r.ID)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				r.Date, r.CourseName, r.TeesPlayed, formatInt(r.FinalScore),
				formatOptional(r.ScoreDifferential))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d rounds\n", len(rounds))
	return err
}

// writeRoundDetail outputs every recorded field of one round
func writeRoundDetail(w io.Writer, d RoundDetail) error {
	r := d.Round
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}

	line("ID", r.ID)
	line("Date", r.Date)
	line("Course", r.CourseName)
	location := strings.Trim(strings.Join([]string{r.City, r.State}, ", "), ", ")
	line("Location", location)
	line("Website", r.Website)
	line("Tees", r.TeesPlayed)
	if r.CourseRating != nil {
		line("Course rating", strconv.FormatFloat(*r.CourseRating, 'f', 1, 64))
	}
	line("Slope rating", optionalInt(r.SlopeRating))
	line("Score", optionalInt(r.FinalScore))
	line("Differential", formatOptional(r.ScoreDifferential))
	line("Holes", optionalInt(r.NumHolesPlayed))
	line("Par", optionalInt(r.Par))
	line("Putts", optionalInt(r.Putts))
	line("Fairways", optionalInt(r.FairwaysHit))
	line("GIR", optionalInt(r.GreensInReg))
	line("Penalties", optionalInt(r.Penalties))
	line("Score type", r.ScoreType)
	if len(r.HoleScores) > 0 {
		parts := make([]string, len(r.HoleScores))
		for i, s := range r.HoleScores {
			parts[i] = strconv.Itoa(s)
		}
		line("Hole scores", strings.Join(parts, " "))
	}
	line("Partners", r.PlayingPartners)
	line("Notes", r.CourseNotes)
	for _, f := range d.Files {
		line("File", f.FileURL)
	}

	return tw.Flush()
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// writeSummary outputs the dashboard as human-readable text
func writeSummary(w io.Writer, s *dashboard.Summary, verbose bool) error {
	fmt.Fprintf(w, "Handicap Index: %s\n\n", s.Handicap)

	best := handicap.NotAvailable
	if s.BestScore != nil {
		best = strconv.Itoa(*s.BestScore)
	}
	fmt.Fprintf(w, "Total Rounds:  %d\n", s.TotalRounds)
	fmt.Fprintf(w, "Best Score:    %s\n", best)
	fmt.Fprintf(w, "Average Score: %s\n\n", s.AverageScore)

	if verbose && len(s.Trend) > 0 {
		fmt.Fprintln(w, "Score trend:")
		for _, p := range s.Trend {
			fmt.Fprintf(w, "  %s  %3d  %s\n", p.Date, p.FinalScore, p.CourseName)
		}
		fmt.Fprintln(w)
	}

	return writeRounds(w, s.Rounds, verbose)
}

// writeCourses outputs courses with their tees
func writeCourses(w io.Writer, courses []course.Course) error {
	if len(courses) == 0 {
		_, err := fmt.Fprintln(w, "No courses found.")
		return err
	}

	for _, c := range courses {
		fmt.Fprintf(w, "%s (%s, %s)\n", c.CourseName, c.City, c.State)
		if c.Website != "" {
			fmt.Fprintf(w, "  %s\n", c.Website)
		}
		for _, t := range c.Tees {
			fmt.Fprintf(w, "  %-10s %5.1f / %d\n", t.TeeName, t.CourseRating, t.SlopeRating)
		}
	}
	return nil
}
