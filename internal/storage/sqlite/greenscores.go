package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/ecosplit/internal/models"
	"github.com/mmynk/ecosplit/internal/storage"
)

const greenScoreColumns = `id, user_id, week, year, score, updated_at`

// UpsertGreenScore inserts or replaces the user's score for the period in a single
// statement, so concurrent writers on the same key cannot create duplicates.
func (s *SQLiteStore) UpsertGreenScore(ctx context.Context, userID string, period models.Period, score int) (*models.GreenScore, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO green_scores (user_id, week, year, score, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, week, year)
		 DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
		 RETURNING `+greenScoreColumns,
		userID, period.Week, period.Year, score, time.Now().Unix(),
	)
	gs, err := scanGreenScore(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert green score: %w", err)
	}
	return gs, nil
}

// GetGreenScore returns the user's score for a period.
func (s *SQLiteStore) GetGreenScore(ctx context.Context, userID string, period models.Period) (*models.GreenScore, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+greenScoreColumns+` FROM green_scores WHERE user_id = ? AND week = ? AND year = ?`,
		userID, period.Week, period.Year,
	)
	gs, err := scanGreenScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("green score for %s in %s: %w", userID, period, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get green score: %w", err)
	}
	return gs, nil
}

// ListGreenScores lists scores in creation order, optionally restricted to one period.
func (s *SQLiteStore) ListGreenScores(ctx context.Context, period *models.Period) ([]models.GreenScore, error) {
	query := `SELECT ` + greenScoreColumns + ` FROM green_scores`
	var args []any
	if period != nil {
		query += ` WHERE week = ? AND year = ?`
		args = append(args, period.Week, period.Year)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list green scores: %w", err)
	}
	defer rows.Close()

	var scores []models.GreenScore
	for rows.Next() {
		gs, err := scanGreenScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan green score: %w", err)
		}
		scores = append(scores, *gs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate green scores: %w", err)
	}
	return scores, nil
}

func scanGreenScore(row scanner) (*models.GreenScore, error) {
	gs := &models.GreenScore{}
	err := row.Scan(&gs.ID, &gs.UserID, &gs.Period.Week, &gs.Period.Year, &gs.Score, &gs.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return gs, nil
}
