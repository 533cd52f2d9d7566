package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/gopher-golf/internal/course"
	"github.com/pfrederiksen/gopher-golf/internal/dashboard"
	"github.com/pfrederiksen/gopher-golf/internal/handicap"
	"github.com/pfrederiksen/gopher-golf/internal/round"
	"github.com/pfrederiksen/gopher-golf/internal/storage"
)

type stubFetcher struct {
	calls int
	err   error
}

func (f *stubFetcher) Fetch(_ context.Context, pageURL string) (*course.Course, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c := course.Stub(pageURL)
	return &c, nil
}

func newTestService(t *testing.T, opts Options) (*Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	if opts.PlayerID == "" {
		opts.PlayerID = "player-1"
	}
	svc := New(store, opts)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func roundForm(score string) round.Form {
	return round.Form{
		"course_name":      "Pebble Beach",
		"date":             "2024-05-01",
		"course_rating":    "72.0",
		"slope_rating":     "113",
		"final_score":      score,
		"num_holes_played": "18",
		"tees_played":      "Blue",
	}
}

func TestAddRound(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	r, err := svc.AddRound(ctx, roundForm("90"))
	require.NoError(t, err)
	require.NotNil(t, r.ScoreDifferential)
	assert.Equal(t, 18.0, *r.ScoreDifferential)
	assert.Equal(t, "player-1", r.UserID)

	got, err := svc.GetRound(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 18.0, *got.ScoreDifferential)
}

func TestAddRoundDefaultsDate(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	f := roundForm("90")
	f["date"] = ""
	r, err := svc.AddRound(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", r.Date)
}

func TestAddRoundKeepsManualDifferential(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	f := round.Form{
		"course_name":        "Muni",
		"final_score":        "88",
		"score_differential": "14.2",
	}
	r, err := svc.AddRound(context.Background(), f)
	require.NoError(t, err)
	require.NotNil(t, r.ScoreDifferential)
	assert.Equal(t, 14.2, *r.ScoreDifferential)
}

func TestAddRoundZeroSlope(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	f := roundForm("90")
	f["slope_rating"] = "0"
	f["score_differential"] = "3.0"
	r, err := svc.AddRound(context.Background(), f)
	require.NoError(t, err)
	assert.Nil(t, r.ScoreDifferential, "an undefined differential is stored as absent")
}

func TestAddRoundValidation(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	_, err := svc.AddRound(ctx, round.Form{"date": "2024-01-01"})
	assert.ErrorIs(t, err, round.ErrCourseNameRequired)

	f := roundForm("90")
	f["date"] = "05/01/2024"
	_, err = svc.AddRound(ctx, f)
	assert.ErrorIs(t, err, round.ErrInvalidDate)
}

func TestUpdateRound(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	r, err := svc.AddRound(ctx, roundForm("90"))
	require.NoError(t, err)

	updated, err := svc.UpdateRound(ctx, r.ID, roundForm("95"))
	require.NoError(t, err)
	assert.Equal(t, r.ID, updated.ID)
	assert.Equal(t, 23.0, *updated.ScoreDifferential)
	assert.Equal(t, "player-1", updated.UserID)
	assert.True(t, r.CreatedAt.Equal(updated.CreatedAt))

	_, err = svc.UpdateRound(ctx, "missing", roundForm("95"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRound(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	r, err := svc.AddRound(ctx, roundForm("90"))
	require.NoError(t, err)
	_, err = svc.AddRoundFile(ctx, r.ID, "https://example.com/card.png")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRound(ctx, r.ID))
	assert.ErrorIs(t, svc.DeleteRound(ctx, r.ID), ErrNotFound)
}

func TestRoundFiles(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	r, err := svc.AddRound(ctx, roundForm("90"))
	require.NoError(t, err)

	_, err = svc.AddRoundFile(ctx, r.ID, "  ")
	assert.Error(t, err)

	_, err = svc.AddRoundFile(ctx, r.ID, "https://example.com/card.png")
	require.NoError(t, err)

	files, err := svc.ListRoundFiles(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = svc.ListRoundFiles(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboard(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	for _, score := range []string{"90", "95", ""} {
		_, err := svc.AddRound(ctx, roundForm(score))
		require.NoError(t, err)
	}

	sum, err := svc.Dashboard(ctx, dashboard.Filter{}, dashboard.DefaultSort)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalRounds)
	// (18.0 + 23.0) * 0.96 / 2 = 19.68
	assert.Equal(t, "19.6", sum.Handicap)
	assert.Equal(t, "92.5", sum.AverageScore)
	require.NotNil(t, sum.BestScore)
	assert.Equal(t, 90, *sum.BestScore)
}

func TestSetPolicy(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	for _, score := range []string{"90", "95"} {
		_, err := svc.AddRound(ctx, roundForm(score))
		require.NoError(t, err)
	}

	svc.SetPolicy(handicap.Policy{Calculator: handicap.Calculator{BestOf: 1, Factor: 0.96}})
	assert.Equal(t, 1, svc.Policy().BestOf)

	sum, err := svc.Dashboard(ctx, dashboard.Filter{}, dashboard.DefaultSort)
	require.NoError(t, err)
	assert.Equal(t, "17.2", sum.Handicap)
}

func TestRecompute(t *testing.T) {
	svc, store := newTestService(t, Options{})
	ctx := context.Background()

	stale, err := svc.AddRound(ctx, roundForm("90"))
	require.NoError(t, err)
	wrong := 1.0
	require.NoError(t, store.UpdateDifferential(ctx, stale.ID, &wrong))

	zeroSlope := roundForm("90")
	zeroSlope["slope_rating"] = "0"
	cleared, err := svc.AddRound(ctx, zeroSlope)
	require.NoError(t, err)
	require.NoError(t, store.UpdateDifferential(ctx, cleared.ID, &wrong))

	_, err = svc.AddRound(ctx, roundForm("95"))
	require.NoError(t, err)

	res, err := svc.Recompute(ctx)
	require.NoError(t, err)
	assert.Equal(t, RecomputeResult{Updated: 1, Cleared: 1, Unchanged: 1}, res)

	got, err := svc.GetRound(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, 18.0, *got.ScoreDifferential)

	got, err = svc.GetRound(ctx, cleared.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ScoreDifferential)

	res, err = svc.Recompute(ctx)
	require.NoError(t, err)
	assert.Equal(t, RecomputeResult{Unchanged: 3}, res)
}

func TestCourses(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	c := &course.Course{
		CourseName: "Pebble Beach",
		City:       "Pebble Beach",
		State:      "ca",
		Tees:       []course.Tee{{TeeName: "blue", CourseRating: 74.7, SlopeRating: 143}},
	}
	require.NoError(t, svc.AddCourse(ctx, c))
	assert.Equal(t, "CA", c.State)

	_, err := svc.SearchCourses(ctx, "p")
	assert.ErrorIs(t, err, ErrQueryTooShort)

	found, err := svc.SearchCourses(ctx, "pebble")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Blue", found[0].Tees[0].TeeName)

	// Adding a course clears the cache so the new tee shows up.
	require.NoError(t, svc.AddCourse(ctx, &course.Course{
		CourseName: "Pebble Beach",
		City:       "Pebble Beach",
		State:      "CA",
		Tees:       []course.Tee{{TeeName: "Gold", CourseRating: 76.0, SlopeRating: 145}},
	}))
	found, err = svc.SearchCourses(ctx, "PEBBLE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Len(t, found[0].Tees, 2)

	err = svc.AddCourse(ctx, &course.Course{CourseName: "No Tees", City: "X", State: "MA"})
	assert.ErrorIs(t, err, course.ErrInvalidCourse)

	names, err := svc.CourseNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pebble Beach"}, names)

	tees, err := svc.TeesForCourse(ctx, "Pebble Beach")
	require.NoError(t, err)
	assert.Len(t, tees, 2)
}

func TestPrefillRound(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	require.NoError(t, svc.AddCourse(ctx, &course.Course{
		CourseName: "Pebble Beach",
		City:       "Pebble Beach",
		State:      "CA",
		Tees: []course.Tee{
			{TeeName: "Blue", CourseRating: 74.7, SlopeRating: 143},
			{TeeName: "White", CourseRating: 71.2, SlopeRating: 130},
		},
	}))

	f := round.Form{"course_name": "Pebble Beach", "final_score": "90"}
	ok, err := svc.PrefillRound(ctx, f, "white")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "71.2", f["course_rating"])
	assert.Equal(t, "130", f["slope_rating"])
	assert.Equal(t, "CA", f["state"])

	ok, err = svc.PrefillRound(ctx, round.Form{"course_name": "Unknown"}, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestImportCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("no fetcher", func(t *testing.T) {
		svc, _ := newTestService(t, Options{})
		_, err := svc.FetchCourse(ctx, "https://example.com")
		assert.ErrorIs(t, err, ErrNoFetcher)
	})

	t.Run("fetch error", func(t *testing.T) {
		fetcher := &stubFetcher{err: errors.New("boom")}
		svc, _ := newTestService(t, Options{Fetcher: fetcher})
		_, err := svc.ImportCourse(ctx, "https://example.com")
		assert.Error(t, err)
	})

	t.Run("imports stub payload", func(t *testing.T) {
		fetcher := &stubFetcher{}
		svc, _ := newTestService(t, Options{Fetcher: fetcher})

		c, err := svc.ImportCourse(ctx, "https://example.com/course")
		require.NoError(t, err)
		assert.Equal(t, 1, fetcher.calls)
		assert.NotEmpty(t, c.ID)

		tees, err := svc.TeesForCourse(ctx, "Scraped Course")
		require.NoError(t, err)
		assert.Len(t, tees, 3)
	})
}

func TestSearchCoursesNormalizesQuery(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	ctx := context.Background()

	require.NoError(t, svc.AddCourse(ctx, &course.Course{
		CourseName: "Pebble Beach",
		City:       "Pebble Beach",
		State:      "CA",
		Tees:       []course.Tee{{TeeName: "Blue", CourseRating: 74.7, SlopeRating: 143}},
	}))

	for _, query := range []string{"pebble beach", "pebble  beach", "  PEBBLE\tBEACH "} {
		found, err := svc.SearchCourses(ctx, query)
		require.NoError(t, err, query)
		assert.Len(t, found, 1, query)
	}
}

// racingStore adds a course while a search is in flight
type racingStore struct {
	*storage.Store
	during func()
}

func (s *racingStore) SearchCourses(ctx context.Context, query string, limit int) ([]course.Row, error) {
	rows, err := s.Store.SearchCourses(ctx, query, limit)
	if s.during != nil {
		during := s.during
		s.during = nil
		during()
	}
	return rows, err
}

func TestSearchCoursesDropsResultsStaleByAddCourse(t *testing.T) {
	store, err := storage.Open(storage.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	racing := &racingStore{Store: store}
	svc := New(racing, Options{PlayerID: "player-1"})
	ctx := context.Background()

	require.NoError(t, svc.AddCourse(ctx, &course.Course{
		CourseName: "Pebble Beach",
		City:       "Pebble Beach",
		State:      "CA",
		Tees:       []course.Tee{{TeeName: "Blue", CourseRating: 74.7, SlopeRating: 143}},
	}))

	racing.during = func() {
		require.NoError(t, svc.AddCourse(ctx, &course.Course{
			CourseName: "Pebble Beach",
			City:       "Pebble Beach",
			State:      "CA",
			Tees:       []course.Tee{{TeeName: "Gold", CourseRating: 76.0, SlopeRating: 145}},
		}))
	}

	found, err := svc.SearchCourses(ctx, "pebble")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Len(t, found[0].Tees, 1, "in-flight search sees the catalog before the add")

	found, err = svc.SearchCourses(ctx, "pebble")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Len(t, found[0].Tees, 2, "stale results must not have been cached")
}
