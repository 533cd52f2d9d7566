package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/gopher-golf/internal/round"
)

// AddRoundFile links a file URL to an existing round
func (s *Store) AddRoundFile(ctx context.Context, roundID, fileURL string) (*round.File, error) {
	if _, err := s.GetRound(ctx, roundID); err != nil {
		return nil, err
	}

	f := &round.File{
		ID:         uuid.NewString(),
		RoundID:    roundID,
		FileURL:    fileURL,
		UploadedAt: time.Now().UTC(),
	}

	query := s.rebind(`INSERT INTO round_files (id, round_id, file_url, uploaded_at) VALUES (?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, f.ID, f.RoundID, f.FileURL, f.UploadedAt.Format(time.RFC3339Nano)); err != nil {
		return nil, fmt.Errorf("inserting round file: %w", err)
	}

	return f, nil
}

// ListRoundFiles returns the files of a round, oldest first
func (s *Store) ListRoundFiles(ctx context.Context, roundID string) ([]*round.File, error) {
	query := s.rebind(`SELECT id, round_id, file_url, uploaded_at FROM round_files
		WHERE round_id = ? ORDER BY uploaded_at`)

	rows, err := s.db.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("listing round files: %w", err)
	}
	defer rows.Close()

	files := make([]*round.File, 0)
	for rows.Next() {
		var (
			f          round.File
			uploadedAt sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.RoundID, &f.FileURL, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scanning round file: %w", err)
		}
		if uploadedAt.Valid {
			if t, err := time.Parse(time.RFC3339Nano, uploadedAt.String); err == nil {
				f.UploadedAt = t
			}
		}
		files = append(files, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating round files: %w", err)
	}

	return files, nil
}
