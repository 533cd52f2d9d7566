package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/gopher-golf/internal/round"
)

const roundColumns = `id, user_id, course_id, date, course_name, city, state, website,
	tees_played, course_rating, slope_rating, final_score, num_holes_played, par,
	putts, fairways_hit, greens_in_reg, penalties, score_type, score_differential,
	hole_scores, playing_partners, course_notes, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

// CreateRound inserts a round. An ID and creation time are assigned when missing.
func (s *Store) CreateRound(ctx context.Context, r *round.Round) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	holeScores, err := encodeHoleScores(r.HoleScores)
	if err != nil {
		return err
	}

	query := s.rebind(`INSERT INTO rounds (` + roundColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err = s.db.ExecContext(ctx, query,
		r.ID,
		nullString(r.UserID),
		nullString(r.CourseID),
		r.Date,
		r.CourseName,
		nullString(r.City),
		nullString(r.State),
		nullString(r.Website),
		nullString(r.TeesPlayed),
		nullFloat(r.CourseRating),
		nullInt(r.SlopeRating),
		nullInt(r.FinalScore),
		nullInt(r.NumHolesPlayed),
		nullInt(r.Par),
		nullInt(r.Putts),
		nullInt(r.FairwaysHit),
		nullInt(r.GreensInReg),
		nullInt(r.Penalties),
		nullString(r.ScoreType),
		nullFloat(r.ScoreDifferential),
		holeScores,
		nullString(r.PlayingPartners),
		nullString(r.CourseNotes),
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting round: %w", err)
	}

	return nil
}

// GetRound retrieves a round by ID
func (s *Store) GetRound(ctx context.Context, id string) (*round.Round, error) {
	query := s.rebind(`SELECT ` + roundColumns + ` FROM rounds WHERE id = ?`)

	r, err := scanRound(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("round %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting round: %w", err)
	}

	return r, nil
}

// ListRounds returns rounds newest first. An empty userID lists every round.
func (s *Store) ListRounds(ctx context.Context, userID string) ([]*round.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing rounds: %w", err)
	}
	defer rows.Close()

	rounds := make([]*round.Round, 0)
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning round: %w", err)
		}
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rounds: %w", err)
	}

	return rounds, nil
}

// UpdateRound replaces every editable field of an existing round
func (s *Store) UpdateRound(ctx context.Context, r *round.Round) error {
	holeScores, err := encodeHoleScores(r.HoleScores)
	if err != nil {
		return err
	}

	query := s.rebind(`UPDATE rounds SET
		user_id = ?, course_id = ?, date = ?, course_name = ?, city = ?, state = ?,
		website = ?, tees_played = ?, course_rating = ?, slope_rating = ?,
		final_score = ?, num_holes_played = ?, par = ?, putts = ?, fairways_hit = ?,
		greens_in_reg = ?, penalties = ?, score_type = ?, score_differential = ?,
		hole_scores = ?, playing_partners = ?, course_notes = ?
		WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query,
		nullString(r.UserID),
		nullString(r.CourseID),
		r.Date,
		r.CourseName,
		nullString(r.City),
		nullString(r.State),
		nullString(r.Website),
		nullString(r.TeesPlayed),
		nullFloat(r.CourseRating),
		nullInt(r.SlopeRating),
		nullInt(r.FinalScore),
		nullInt(r.NumHolesPlayed),
		nullInt(r.Par),
		nullInt(r.Putts),
		nullInt(r.FairwaysHit),
		nullInt(r.GreensInReg),
		nullInt(r.Penalties),
		nullString(r.ScoreType),
		nullFloat(r.ScoreDifferential),
		holeScores,
		nullString(r.PlayingPartners),
		nullString(r.CourseNotes),
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("updating round: %w", err)
	}

	return expectOneRow(res, "round", r.ID)
}

// UpdateDifferential stores a recomputed differential; nil clears it
func (s *Store) UpdateDifferential(ctx context.Context, id string, differential *float64) error {
	query := s.rebind(`UPDATE rounds SET score_differential = ? WHERE id = ?`)

	res, err := s.db.ExecContext(ctx, query, nullFloat(differential), id)
	if err != nil {
		return fmt.Errorf("updating differential: %w", err)
	}

	return expectOneRow(res, "round", id)
}

// DeleteRound removes a round and its files
func (s *Store) DeleteRound(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM round_files WHERE round_id = ?`), id); err != nil {
		return fmt.Errorf("deleting round files: %w", err)
	}

	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM rounds WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting round: %w", err)
	}
	if err := expectOneRow(res, "round", id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

func scanRound(row scanner) (*round.Round, error) {
	var (
		r                                                   round.Round
		userID, courseID, city, state, website, tees        sql.NullString
		scoreType, holeScores, partners, notes, createdAt   sql.NullString
		rating, differential                                sql.NullFloat64
		slope, score, holes, par, putts, fairways, gir, pen sql.NullInt64
	)

	err := row.Scan(
		&r.ID, &userID, &courseID, &r.Date, &r.CourseName, &city, &state, &website,
		&tees, &rating, &slope, &score, &holes, &par,
		&putts, &fairways, &gir, &pen, &scoreType, &differential,
		&holeScores, &partners, &notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	r.UserID = userID.String
	r.CourseID = courseID.String
	r.City = city.String
	r.State = state.String
	r.Website = website.String
	r.TeesPlayed = tees.String
	r.CourseRating = floatFromNull(rating)
	r.SlopeRating = intFromNull(slope)
	r.FinalScore = intFromNull(score)
	r.NumHolesPlayed = intFromNull(holes)
	r.Par = intFromNull(par)
	r.Putts = intFromNull(putts)
	r.FairwaysHit = intFromNull(fairways)
	r.GreensInReg = intFromNull(gir)
	r.Penalties = intFromNull(pen)
	r.ScoreType = scoreType.String
	r.ScoreDifferential = floatFromNull(differential)
	r.PlayingPartners = partners.String
	r.CourseNotes = notes.String

	if holeScores.Valid && holeScores.String != "" {
		if err := json.Unmarshal([]byte(holeScores.String), &r.HoleScores); err != nil {
			return nil, fmt.Errorf("parsing hole scores: %w", err)
		}
	}

	if createdAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, createdAt.String); err == nil {
			r.CreatedAt = t
		}
	}

	return &r, nil
}

func encodeHoleScores(scores []int) (interface{}, error) {
	if len(scores) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("encoding hole scores: %w", err)
	}
	return string(data), nil
}

func expectOneRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
