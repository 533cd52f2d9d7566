package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/gopher-golf/internal/course"
	"github.com/pfrederiksen/gopher-golf/internal/dashboard"
	"github.com/pfrederiksen/gopher-golf/internal/handicap"
	"github.com/pfrederiksen/gopher-golf/internal/logger"
	"github.com/pfrederiksen/gopher-golf/internal/round"
	"github.com/pfrederiksen/gopher-golf/internal/storage"
)

// MinQueryLength is the shortest course search query that hits the catalog
const MinQueryLength = 2

var (
	// ErrNotFound is returned for unknown rounds
	ErrNotFound = storage.ErrNotFound

	// ErrQueryTooShort is returned for course searches under MinQueryLength characters
	ErrQueryTooShort = errors.New("search query too short")

	// ErrNoFetcher is returned when no scrape endpoint is configured
	ErrNoFetcher = errors.New("no course scrape endpoint configured")
)

// Store is the persistence the service needs
type Store interface {
	CreateRound(ctx context.Context, r *round.Round) error
	GetRound(ctx context.Context, id string) (*round.Round, error)
	ListRounds(ctx context.Context, userID string) ([]*round.Round, error)
	UpdateRound(ctx context.Context, r *round.Round) error
	UpdateDifferential(ctx context.Context, id string, differential *float64) error
	DeleteRound(ctx context.Context, id string) error

	AddRoundFile(ctx context.Context, roundID, fileURL string) (*round.File, error)
	ListRoundFiles(ctx context.Context, roundID string) ([]*round.File, error)

	AddCourse(ctx context.Context, c *course.Course) error
	SearchCourses(ctx context.Context, query string, limit int) ([]course.Row, error)
	CourseNames(ctx context.Context) ([]string, error)
	TeesForCourse(ctx context.Context, name string) ([]course.Row, error)
}

// Fetcher retrieves course data from a page URL
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*course.Course, error)
}

// Options configures a Service
type Options struct {
	PlayerID string          // Default user_id for new rounds; also scopes listings
	Policy   handicap.Policy // Zero value uses handicap.DefaultPolicy
	CacheTTL time.Duration   // Course search cache TTL (0 = course.DefaultCacheTTL)
	Fetcher  Fetcher         // Optional course scrape client
}

// Service implements the round tracker operations
type Service struct {
	store    Store
	fetcher  Fetcher
	cache    *course.SearchCache
	playerID string
	now      func() time.Time

	mu     sync.RWMutex
	policy handicap.Policy
}

// New creates a Service on top of store
func New(store Store, opts Options) *Service {
	policy := opts.Policy
	if policy == (handicap.Policy{}) {
		policy = handicap.DefaultPolicy
	}
	return &Service{
		store:    store,
		fetcher:  opts.Fetcher,
		cache:    course.NewSearchCache(opts.CacheTTL),
		playerID: opts.PlayerID,
		now:      time.Now,
		policy:   policy,
	}
}

// Policy returns the handicap policy currently in effect
func (s *Service) Policy() handicap.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy swaps the handicap policy, e.g. after a config reload.
// Stored differentials are not touched; run Recompute for that.
func (s *Service) SetPolicy(p handicap.Policy) {
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()

	logger.Info("Handicap policy updated", logger.Fields{
		"best_of":           p.BestOf,
		"factor":            p.Factor,
		"exclude_nine_hole": p.ExcludeNineHole,
	})
}

// AddRound sanitizes a round form, computes its differential and stores it
func (s *Service) AddRound(ctx context.Context, f round.Form) (*round.Round, error) {
	r, err := round.ParseForm(f, s.now())
	if err != nil {
		return nil, err
	}
	if r.UserID == "" {
		r.UserID = s.playerID
	}
	r.ApplyDifferential(s.Policy().Calculator)

	if err := s.store.CreateRound(ctx, r); err != nil {
		logger.Error("Failed to save round", logger.Fields{"course": r.CourseName}, err)
		return nil, err
	}

	logger.Info("Round saved", logger.Fields{
		"round_id":     r.ID,
		"course":       r.CourseName,
		"date":         r.Date,
		"differential": r.ScoreDifferential,
	})
	logger.IncrCounter("rounds.created")
	return r, nil
}

// UpdateRound replaces a stored round with a sanitized form. The original
// owner and creation time are kept.
func (s *Service) UpdateRound(ctx context.Context, id string, f round.Form) (*round.Round, error) {
	existing, err := s.store.GetRound(ctx, id)
	if err != nil {
		return nil, err
	}

	r, err := round.ParseForm(f, s.now())
	if err != nil {
		return nil, err
	}
	r.ID = existing.ID
	r.CreatedAt = existing.CreatedAt
	if r.UserID == "" {
		r.UserID = existing.UserID
	}
	r.ApplyDifferential(s.Policy().Calculator)

	if err := s.store.UpdateRound(ctx, r); err != nil {
		logger.Error("Failed to update round", logger.Fields{"round_id": id}, err)
		return nil, err
	}

	logger.Info("Round updated", logger.Fields{"round_id": id, "differential": r.ScoreDifferential})
	logger.IncrCounter("rounds.updated")
	return r, nil
}

// GetRound returns one round
func (s *Service) GetRound(ctx context.Context, id string) (*round.Round, error) {
	return s.store.GetRound(ctx, id)
}

// DeleteRound removes a round and its files
func (s *Service) DeleteRound(ctx context.Context, id string) error {
	if err := s.store.DeleteRound(ctx, id); err != nil {
		return err
	}
	logger.Info("Round deleted", logger.Fields{"round_id": id})
	logger.IncrCounter("rounds.deleted")
	return nil
}

// ListRounds returns the player's rounds, newest first
func (s *Service) ListRounds(ctx context.Context) ([]*round.Round, error) {
	rounds, err := s.store.ListRounds(ctx, s.playerID)
	if err != nil {
		return nil, err
	}
	logger.SetGauge("rounds.stored", float64(len(rounds)))
	return rounds, nil
}

// AddRoundFile attaches a file URL to a round
func (s *Service) AddRoundFile(ctx context.Context, roundID, fileURL string) (*round.File, error) {
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return nil, fmt.Errorf("file URL is required")
	}
	f, err := s.store.AddRoundFile(ctx, roundID, fileURL)
	if err != nil {
		return nil, err
	}
	logger.IncrCounter("round_files.created")
	return f, nil
}

// ListRoundFiles returns the files attached to a round
func (s *Service) ListRoundFiles(ctx context.Context, roundID string) ([]*round.File, error) {
	if _, err := s.store.GetRound(ctx, roundID); err != nil {
		return nil, err
	}
	return s.store.ListRoundFiles(ctx, roundID)
}

// Dashboard builds the dashboard view over the player's rounds
func (s *Service) Dashboard(ctx context.Context, f dashboard.Filter, sort dashboard.Sort) (*dashboard.Summary, error) {
	start := time.Now()
	rounds, err := s.ListRounds(ctx)
	if err != nil {
		return nil, err
	}

	summary := dashboard.Build(rounds, s.Policy(), f, sort)
	logger.RecordTiming("dashboard.build", time.Since(start))
	return summary, nil
}

// RecomputeResult counts what a Recompute pass did
type RecomputeResult struct {
	Updated   int `json:"updated"`
	Cleared   int `json:"cleared"`
	Unchanged int `json:"unchanged"`
}

// Recompute re-applies the current policy to every stored round using the
// same rule as saving a round, and persists the differentials that changed.
func (s *Service) Recompute(ctx context.Context) (RecomputeResult, error) {
	var res RecomputeResult

	rounds, err := s.store.ListRounds(ctx, "")
	if err != nil {
		return res, err
	}

	calc := s.Policy().Calculator
	for _, r := range rounds {
		before := r.ScoreDifferential
		r.ApplyDifferential(calc)
		after := r.ScoreDifferential

		switch {
		case sameDifferential(before, after):
			res.Unchanged++
			continue
		case after == nil:
			res.Cleared++
		default:
			res.Updated++
		}

		if err := s.store.UpdateDifferential(ctx, r.ID, after); err != nil {
			return res, fmt.Errorf("recomputing round %s: %w", r.ID, err)
		}
	}

	logger.Info("Differentials recomputed", logger.Fields{
		"updated":   res.Updated,
		"cleared":   res.Cleared,
		"unchanged": res.Unchanged,
	})
	return res, nil
}

func sameDifferential(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
