package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/gopher-golf/internal/course"
	"github.com/pfrederiksen/gopher-golf/internal/round"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(n int) *int { return &n }
func floatPtr(f float64) *float64 { return &f }

func sampleRound(date string) *round.Round {
	return &round.Round{
		UserID:         "player-1",
		Date:           date,
		CourseName:     "Pebble Beach Golf Links",
		City:           "Pebble Beach",
		State:          "CA",
		TeesPlayed:     "Blue",
		CourseRating:   floatPtr(72.0),
		SlopeRating:    intPtr(113),
		FinalScore:     intPtr(90),
		NumHolesPlayed: intPtr(18),
		Par:            intPtr(72),
		ScoreType:      round.ScoreTypeHome,
		HoleScores:     []int{5, 4, 6, 5, 4, 5, 5, 6, 5, 5, 4, 6, 5, 4, 5, 6, 5, 5},
	}
}

func TestOpen(t *testing.T) {
	t.Run("unsupported driver", func(t *testing.T) {
		_, err := Open("mysql", "whatever")
		assert.Error(t, err)
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		_, err := Open(DriverPostgres, " ")
		assert.Error(t, err)
	})

	t.Run("sqlite file is created", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "golf.db")
		s, err := Open(DriverSQLite, path)
		require.NoError(t, err)
		defer s.Close()
		assert.Equal(t, DriverSQLite, s.Driver())
		assert.FileExists(t, path)
	})
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "x = ?", lite.rebind("x = ?"))
}

func TestRoundLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := sampleRound("2024-05-01")
	r.ScoreDifferential = floatPtr(18.0)
	require.NoError(t, s.CreateRound(ctx, r))
	require.NotEmpty(t, r.ID)
	require.False(t, r.CreatedAt.IsZero())

	got, err := s.GetRound(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pebble Beach Golf Links", got.CourseName)
	assert.Equal(t, 90, *got.FinalScore)
	assert.Equal(t, 72.0, *got.CourseRating)
	assert.Equal(t, 18.0, *got.ScoreDifferential)
	assert.Equal(t, r.HoleScores, got.HoleScores)
	assert.Nil(t, got.Putts)
	assert.Empty(t, got.Website)

	got.Putts = intPtr(32)
	got.FinalScore = intPtr(85)
	require.NoError(t, s.UpdateRound(ctx, got))

	updated, err := s.GetRound(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 32, *updated.Putts)
	assert.Equal(t, 85, *updated.FinalScore)

	require.NoError(t, s.UpdateDifferential(ctx, r.ID, nil))
	cleared, err := s.GetRound(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.ScoreDifferential)

	_, err = s.AddRoundFile(ctx, r.ID, "https://example.com/card.jpg")
	require.NoError(t, err)

	require.NoError(t, s.DeleteRound(ctx, r.ID))
	_, err = s.GetRound(ctx, r.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	files, err := s.ListRoundFiles(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRoundNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetRound(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	r := sampleRound("2024-05-01")
	r.ID = "missing"
	assert.ErrorIs(t, s.UpdateRound(ctx, r), ErrNotFound)
	assert.ErrorIs(t, s.UpdateDifferential(ctx, "missing", floatPtr(1)), ErrNotFound)
	assert.ErrorIs(t, s.DeleteRound(ctx, "missing"), ErrNotFound)

	_, err = s.AddRoundFile(ctx, "missing", "https://example.com/x.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRounds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2024-03-01", "2024-06-15", "2024-01-20"} {
		require.NoError(t, s.CreateRound(ctx, sampleRound(date)))
	}
	other := sampleRound("2024-07-01")
	other.UserID = "player-2"
	require.NoError(t, s.CreateRound(ctx, other))

	all, err := s.ListRounds(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := s.ListRounds(ctx, "player-1")
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "2024-06-15", mine[0].Date)
	assert.Equal(t, "2024-03-01", mine[1].Date)
	assert.Equal(t, "2024-01-20", mine[2].Date)
}

func TestRoundFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := sampleRound("2024-05-01")
	require.NoError(t, s.CreateRound(ctx, r))

	f, err := s.AddRoundFile(ctx, r.ID, "https://example.com/card.jpg")
	require.NoError(t, err)
	assert.Equal(t, r.ID, f.RoundID)
	assert.NotEmpty(t, f.ID)

	files, err := s.ListRoundFiles(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "https://example.com/card.jpg", files[0].FileURL)
}

func TestCourses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pebble := &course.Course{
		CourseName: "Pebble Beach Golf Links",
		City:       "Pebble Beach",
		State:      "CA",
		Tees: []course.Tee{
			{TeeName: "White", CourseRating: 71.2, SlopeRating: 130},
			{TeeName: "Blue", CourseRating: 74.7, SlopeRating: 143},
		},
	}
	require.NoError(t, s.AddCourse(ctx, pebble))
	assert.NotEmpty(t, pebble.ID)

	torrey := &course.Course{
		CourseName: "Torrey Pines 100%_South",
		City:       "La Jolla",
		State:      "CA",
		Tees:       []course.Tee{{TeeName: "Black", CourseRating: 78.1, SlopeRating: 144}},
	}
	require.NoError(t, s.AddCourse(ctx, torrey))

	rows, err := s.SearchCourses(ctx, "PEBBLE", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Blue", rows[0].TeeName, "higher rating first")
	assert.Equal(t, "White", rows[1].TeeName)

	rows, err = s.SearchCourses(ctx, "%_", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1, "wildcards are matched literally")
	assert.Equal(t, "Torrey Pines 100%_South", rows[0].CourseName)

	rows, err = s.SearchCourses(ctx, "a", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	names, err := s.CourseNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pebble Beach Golf Links", "Torrey Pines 100%_South"}, names)

	tees, err := s.TeesForCourse(ctx, "Pebble Beach Golf Links")
	require.NoError(t, err)
	grouped := course.GroupTees(tees)
	require.Len(t, grouped, 1)
	assert.Len(t, grouped[0].Tees, 2)

	tees, err = s.TeesForCourse(ctx, "pebble beach golf links")
	require.NoError(t, err)
	assert.Empty(t, tees)
}

func TestSearchCoursesFoldsUnicode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddCourse(ctx, &course.Course{
		CourseName: "Golf de l'École Évian",
		City:       "Évian-les-Bains",
		State:      "FR",
		Tees:       []course.Tee{{TeeName: "Blanc", CourseRating: 72.3, SlopeRating: 135}},
	}))

	for _, query := range []string{"ÉCOLE", "école", "évian", "ÉVIAN"} {
		rows, err := s.SearchCourses(ctx, query, 0)
		require.NoError(t, err)
		assert.Len(t, rows, 1, query)
	}
}
