package cli

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/gopher-golf/internal/api"
	"github.com/pfrederiksen/gopher-golf/internal/config"
	"github.com/pfrederiksen/gopher-golf/internal/dashboard"
	"github.com/pfrederiksen/gopher-golf/internal/handicap"
	"github.com/pfrederiksen/gopher-golf/internal/logger"
	"github.com/pfrederiksen/gopher-golf/internal/round"
	"github.com/pfrederiksen/gopher-golf/internal/tracker"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the JSON API, the metrics endpoint and the course-data stub.
When --config is given the file is watched and handicap settings are
reloaded without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return a.withService(func(svc *tracker.Service) error {
				if a.configPath != "" {
					go func() {
						err := config.Watch(ctx, a.configPath, func(cfg *config.Config) {
							svc.SetPolicy(cfg.Handicap.Policy())
						})
						if err != nil {
							logger.Error("Config watch stopped", logger.Fields{"path": a.configPath}, err)
						}
					}()
				}

				logger.Info("Starting gopher server", logger.Fields{
					"addr":   a.cfg.Server.Addr,
					"driver": a.cfg.Database.Driver,
					"player": a.cfg.Player.ID,
				})
				return api.Serve(ctx, a.cfg.Server.Addr, api.New(svc))
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "Listen address")
	return cmd
}

// DifferentialResult is the output of the differential command
type DifferentialResult struct {
	FinalScore        int      `json:"final_score"`
	CourseRating      float64  `json:"course_rating"`
	SlopeRating       int      `json:"slope_rating"`
	ScoreDifferential *float64 `json:"score_differential"`
}

func newDifferentialCmd(a *app) *cobra.Command {
	var (
		score  int
		rating float64
		slope  int
	)

	cmd := &cobra.Command{
		Use:   "differential",
		Short: "Compute the score differential of one round",
		Example: `  gopher differential --score 90 --rating 72.0 --slope 113
  gopher differential --score 85 --rating 71.2 --slope 129 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := DifferentialResult{FinalScore: score, CourseRating: rating, SlopeRating: slope}
			if d, ok := a.cfg.Handicap.Policy().Differential(score, rating, slope); ok {
				res.ScoreDifferential = &d
			}

			return a.write(cmd.OutOrStdout(), res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, formatOptional(res.ScoreDifferential))
				return err
			})
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Gross score (required)")
	cmd.Flags().Float64Var(&rating, "rating", 0, "Course rating (required)")
	cmd.Flags().IntVar(&slope, "slope", 0, "Slope rating (required)")
	cmd.MarkFlagRequired("score")  // nolint:errcheck
	cmd.MarkFlagRequired("rating") // nolint:errcheck
	cmd.MarkFlagRequired("slope")  // nolint:errcheck
	return cmd
}

// HandicapResult is the output of the handicap command
type HandicapResult struct {
	Differentials []float64 `json:"differentials"`
	HandicapIndex *float64  `json:"handicap_index"`
	Display       string    `json:"display"`
}

func newHandicapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "handicap [differential...]",
		Short: "Compute a handicap index",
		Long: `Compute a handicap index from the given differentials, or from the
stored rounds when none are given.`,
		Example: `  gopher handicap 10 12 14 16 18 20 22 24 30 32
  gopher handicap`,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := a.cfg.Handicap.Policy()
			res := HandicapResult{Differentials: make([]float64, 0, len(args))}

			if len(args) > 0 {
				for _, arg := range args {
					d := round.ParseOptionalFloat(arg)
					if d == nil {
						return fmt.Errorf("invalid differential %q", arg)
					}
					res.Differentials = append(res.Differentials, *d)
				}
			} else {
				err := a.withService(func(svc *tracker.Service) error {
					rounds, err := svc.ListRounds(cmd.Context())
					if err != nil {
						return err
					}
					res.Differentials = dashboard.Differentials(rounds, policy)
					return nil
				})
				if err != nil {
					return err
				}
			}

			index, ok := policy.HandicapIndex(res.Differentials)
			res.Display = handicap.Display(index, ok)
			if ok {
				res.HandicapIndex = &index
			}

			return a.write(cmd.OutOrStdout(), res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Display)
				return err
			})
		},
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	var (
		filter  dashboard.Filter
		sortKey string
		sortDir string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the handicap, round statistics and rounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sort, err := dashboard.ParseSort(sortKey, sortDir)
			if err != nil {
				return err
			}

			return a.withService(func(svc *tracker.Service) error {
				summary, err := svc.Dashboard(cmd.Context(), filter, sort)
				if err != nil {
					return err
				}
				return a.write(cmd.OutOrStdout(), summary, func(w io.Writer) error {
					return writeSummary(w, summary, a.verbose)
				})
			})
		},
	}

	cmd.Flags().StringVar(&filter.Search, "search", "", "Course name contains (case-insensitive)")
	cmd.Flags().StringVar(&filter.Tee, "tee", "", "Only rounds played from these tees")
	cmd.Flags().StringVar(&filter.Course, "course", "", "Only rounds at this exact course")
	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort by: date, course_name, final_score, score_differential")
	cmd.Flags().StringVar(&sortDir, "dir", "", "Sort direction: asc or desc")
	return cmd
}

func newRecomputeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recompute every stored differential with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *tracker.Service) error {
				res, err := svc.Recompute(cmd.Context())
				if err != nil {
					return err
				}
				return a.write(cmd.OutOrStdout(), res, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Recomputed differentials: %d updated, %d cleared, %d unchanged\n",
						res.Updated, res.Cleared, res.Unchanged)
					return err
				})
			})
		},
	}
}
