package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/gopher-golf/internal/dashboard"
	"github.com/pfrederiksen/gopher-golf/internal/round"
	"github.com/pfrederiksen/gopher-golf/internal/tracker"
)

// formFlag binds a command line flag to a round form field
type formFlag struct {
	name  string
	field string
	usage string
}

var roundFlags = []formFlag{
	{"course", "course_name", "Course name"},
	{"course-id", "course_id", "Catalog course ID"},
	{"date", "date", "Date played (YYYY-MM-DD, default today)"},
	{"city", "city", "City"},
	{"state", "state", "State"},
	{"website", "website", "Course website"},
	{"tee", "tees_played", "Tees played"},
	{"rating", "course_rating", "Course rating"},
	{"slope", "slope_rating", "Slope rating"},
	{"score", "final_score", "Gross score"},
	{"holes", "num_holes_played", "Holes played"},
	{"par", "par", "Par"},
	{"putts", "putts", "Putts"},
	{"fairways", "fairways_hit", "Fairways hit"},
	{"gir", "greens_in_reg", "Greens in regulation"},
	{"penalties", "penalties", "Penalty strokes"},
	{"score-type", "score_type", "Score type: Home, Away or Championship"},
	{"differential", "score_differential", "Score differential, used when the rating inputs are incomplete"},
	{"hole-scores", "hole_scores", "Hole scores as a comma list or JSON array"},
	{"partners", "playing_partners", "Playing partners"},
	{"notes", "course_notes", "Course notes"},
}

// bindRoundFlags registers the round form flags on cmd
func bindRoundFlags(cmd *cobra.Command) map[string]*string {
	values := make(map[string]*string, len(roundFlags))
	for _, f := range roundFlags {
		values[f.name] = cmd.Flags().String(f.name, "", f.usage)
	}
	return values
}

// changedForm copies the flags that were set on the command line into f
func changedForm(cmd *cobra.Command, values map[string]*string, f round.Form) {
	for _, flag := range roundFlags {
		if cmd.Flags().Changed(flag.name) {
			f[flag.field] = *values[flag.name]
		}
	}
}

func newRoundsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rounds",
		Short: "Manage recorded rounds",
	}

	cmd.AddCommand(
		newRoundsListCmd(a),
		newRoundsShowCmd(a),
		newRoundsAddCmd(a),
		newRoundsEditCmd(a),
		newRoundsDeleteCmd(a),
	)
	return cmd
}

func newRoundsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rounds, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *tracker.Service) error {
				rounds, err := svc.ListRounds(cmd.Context())
				if err != nil {
					return err
				}
				dashboard.DefaultSort.Apply(rounds)
				return a.write(cmd.OutOrStdout(), rounds, func(w io.Writer) error {
					return writeRounds(w, rounds, a.verbose)
				})
			})
		},
	}
}

func newRoundsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one round with its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *tracker.Service) error {
				r, err := svc.GetRound(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				files, err := svc.ListRoundFiles(cmd.Context(), r.ID)
				if err != nil {
					return err
				}

				detail := RoundDetail{Round: r, Files: files}
				return a.write(cmd.OutOrStdout(), detail, func(w io.Writer) error {
					return writeRoundDetail(w, detail)
				})
			})
		},
	}
}

func newRoundsAddCmd(a *app) *cobra.Command {
	var (
		values map[string]*string
		files  []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a round",
		Long: `Record a round. Blank course details (location, rating, slope) are
filled from the course catalog when --course names a catalog course. The
differential is computed when score, rating, slope and holes are known.`,
		Example: `  gopher rounds add --course "Pebble Beach" --tee Blue --score 90 --holes 18
  gopher rounds add --course Muni --rating 70.1 --slope 118 --score 88 --holes 18 --hole-scores 5,4,5,6,4,5,5,4,5,5,4,6,5,4,5,5,6,5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := round.Form{}
			changedForm(cmd, values, f)

			return a.withService(func(svc *tracker.Service) error {
				ctx := cmd.Context()
				if _, err := svc.PrefillRound(ctx, f, f["tees_played"]); err != nil {
					return err
				}

				r, err := svc.AddRound(ctx, f)
				if err != nil {
					return err
				}
				for _, url := range files {
					if _, err := svc.AddRoundFile(ctx, r.ID, url); err != nil {
						return fmt.Errorf("attaching %s: %w", url, err)
					}
				}

				return a.write(cmd.OutOrStdout(), r, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Saved round %s (differential %s)\n", r.ID, formatOptional(r.ScoreDifferential))
					return err
				})
			})
		},
	}

	values = bindRoundFlags(cmd)
	cmd.Flags().StringArrayVar(&files, "file", nil, "Attach a file URL (repeatable)")
	cmd.MarkFlagRequired("course") // nolint:errcheck
	return cmd
}

func newRoundsEditCmd(a *app) *cobra.Command {
	var values map[string]*string

	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Change fields of a recorded round",
		Example: `  gopher rounds edit 3f2c... --score 88 --putts ""`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *tracker.Service) error {
				existing, err := svc.GetRound(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				f := formFromRound(existing)
				changedForm(cmd, values, f)

				r, err := svc.UpdateRound(cmd.Context(), existing.ID, f)
				if err != nil {
					return err
				}
				return a.write(cmd.OutOrStdout(), r, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Updated round %s (differential %s)\n", r.ID, formatOptional(r.ScoreDifferential))
					return err
				})
			})
		},
	}

	values = bindRoundFlags(cmd)
	return cmd
}

func newRoundsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a round and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *tracker.Service) error {
				if err := svc.DeleteRound(cmd.Context(), args[0]); err != nil {
					return err
				}
				result := map[string]string{"deleted": args[0]}
				return a.write(cmd.OutOrStdout(), result, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Deleted round %s\n", args[0])
					return err
				})
			})
		},
	}
}

// formFromRound renders a stored round back into form text
func formFromRound(r *round.Round) round.Form {
	f := round.Form{
		"user_id":          r.UserID,
		"course_id":        r.CourseID,
		"date":             r.Date,
		"course_name":      r.CourseName,
		"city":             r.City,
		"state":            r.State,
		"website":          r.Website,
		"tees_played":      r.TeesPlayed,
		"score_type":       r.ScoreType,
		"playing_partners": r.PlayingPartners,
		"course_notes":     r.CourseNotes,
	}

	ints := map[string]*int{
		"slope_rating":     r.SlopeRating,
		"final_score":      r.FinalScore,
		"num_holes_played": r.NumHolesPlayed,
		"par":              r.Par,
		"putts":            r.Putts,
		"fairways_hit":     r.FairwaysHit,
		"greens_in_reg":    r.GreensInReg,
		"penalties":        r.Penalties,
	}
	for key, v := range ints {
		if v != nil {
			f[key] = strconv.Itoa(*v)
		}
	}

	if r.CourseRating != nil {
		f["course_rating"] = strconv.FormatFloat(*r.CourseRating, 'f', -1, 64)
	}
	if r.ScoreDifferential != nil {
		f["score_differential"] = strconv.FormatFloat(*r.ScoreDifferential, 'f', -1, 64)
	}
	if len(r.HoleScores) > 0 {
		parts := make([]string, len(r.HoleScores))
		for i, s := range r.HoleScores {
			parts[i] = strconv.Itoa(s)
		}
		f["hole_scores"] = strings.Join(parts, ",")
	}

	return f
}
