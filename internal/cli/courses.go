package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/gopher-golf/internal/course"
	"github.com/pfrederiksen/gopher-golf/internal/tracker"
)

func newCoursesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Search and maintain the course catalog",
	}

	cmd.AddCommand(
		newCoursesSearchCmd(a),
		newCoursesAddCmd(a),
		newCoursesFetchCmd(a),
	)
	return cmd
}

func newCoursesSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find catalog courses by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return a.withService(func(svc *tracker.Service) error {
				courses, err := svc.SearchCourses(cmd.Context(), query)
				if err != nil {
					return err
				}
				return a.write(cmd.OutOrStdout(), courses, func(w io.Writer) error {
					return writeCourses(w, courses)
				})
			})
		},
	}
}

func newCoursesAddCmd(a *app) *cobra.Command {
	var (
		c    course.Course
		tees []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a course with its tees",
		Example: `  gopher courses add --name "Pebble Beach Golf Links" --city "Pebble Beach" --state CA \
    --tee Blue:74.7:143 --tee White:71.2:130`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, spec := range tees {
				tee, err := parseTee(spec)
				if err != nil {
					return err
				}
				c.Tees = append(c.Tees, tee)
			}

			return a.withService(func(svc *tracker.Service) error {
				if err := svc.AddCourse(cmd.Context(), &c); err != nil {
					return err
				}
				return a.write(cmd.OutOrStdout(), c, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added %s (%s, %s) with %d tees\n", c.CourseName, c.City, c.State, len(c.Tees))
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&c.CourseName, "name", "", "Course name (required)")
	cmd.Flags().StringVar(&c.City, "city", "", "City (required)")
	cmd.Flags().StringVar(&c.State, "state", "", "State (required)")
	cmd.Flags().StringVar(&c.Website, "website", "", "Course website")
	cmd.Flags().StringVar(&c.PublicPrivate, "access", "", "Public or private")
	cmd.Flags().StringArrayVar(&tees, "tee", nil, "Tee as NAME:RATING:SLOPE (repeatable)")
	return cmd
}

func newCoursesFetchCmd(a *app) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch course data from the configured scrape endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(func(svc *tracker.Service) error {
				fetch := svc.FetchCourse
				if save {
					fetch = svc.ImportCourse
				}

				c, err := fetch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.write(cmd.OutOrStdout(), c, func(w io.Writer) error {
					return writeCourses(w, []course.Course{*c})
				})
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Add the fetched course to the catalog")
	return cmd
}

// parseTee reads NAME:RATING:SLOPE; the name itself may contain colons
func parseTee(spec string) (course.Tee, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return course.Tee{}, fmt.Errorf("invalid tee %q (want NAME:RATING:SLOPE)", spec)
	}
	n := len(parts)

	rating, err := strconv.ParseFloat(strings.TrimSpace(parts[n-2]), 64)
	if err != nil {
		return course.Tee{}, fmt.Errorf("invalid course rating in tee %q", spec)
	}
	slope, err := strconv.Atoi(strings.TrimSpace(parts[n-1]))
	if err != nil {
		return course.Tee{}, fmt.Errorf("invalid slope rating in tee %q", spec)
	}

	return course.Tee{
		TeeName:      strings.Join(parts[:n-2], ":"),
		CourseRating: rating,
		SlopeRating:  slope,
	}, nil
}
