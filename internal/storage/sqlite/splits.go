package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ecosplit/internal/models"
)

// CreateSplit persists a finalized split and its participants.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.Split) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO splits (id, receipt_id, owner_id, title, total_cents, owner_share_cents, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		split.ID, nullString(split.ReceiptID), split.OwnerID, split.Title,
		toCents(split.Total), toCents(split.OwnerShare), split.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	for i, p := range split.Participants {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO split_participants (split_id, position, name, amount_cents, settled)
			 VALUES (?, ?, ?, ?, ?)`,
			split.ID, i, p.Name, toCents(p.Amount), boolToInt(p.Settled),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSplitsByOwner returns the owner's splits, newest first.
func (s *SQLiteStore) ListSplitsByOwner(ctx context.Context, ownerID string) ([]*models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(receipt_id, ''), owner_id, title, total_cents, owner_share_cents, created_at
		 FROM splits WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var splits []*models.Split
	for rows.Next() {
		split := &models.Split{}
		var totalCents, ownerShareCents int64
		if err := rows.Scan(&split.ID, &split.ReceiptID, &split.OwnerID, &split.Title,
			&totalCents, &ownerShareCents, &split.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		split.Total = fromCents(totalCents)
		split.OwnerShare = fromCents(ownerShareCents)
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	rows.Close()

	for _, split := range splits {
		if split.Participants, err = s.splitParticipants(ctx, split.ID); err != nil {
			return nil, err
		}
	}
	return splits, nil
}

func (s *SQLiteStore) splitParticipants(ctx context.Context, splitID string) ([]models.SplitParticipant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, amount_cents, settled FROM split_participants WHERE split_id = ? ORDER BY position`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split participants: %w", err)
	}
	defer rows.Close()

	var participants []models.SplitParticipant
	for rows.Next() {
		var (
			p           models.SplitParticipant
			amountCents int64
			settled     int
		)
		if err := rows.Scan(&p.Name, &amountCents, &settled); err != nil {
			return nil, fmt.Errorf("failed to scan split participant: %w", err)
		}
		p.Amount = fromCents(amountCents)
		p.Settled = settled != 0
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split participants: %w", err)
	}
	return participants, nil
}
