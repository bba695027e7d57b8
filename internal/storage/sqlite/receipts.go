package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ecosplit/internal/models"
	"github.com/mmynk/ecosplit/internal/storage"
)

// CreateReceipt persists a new receipt and its items in one transaction.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}
	if receipt.Title == "" {
		receipt.Title = generateTitle(receipt.CreatedAt)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, owner_id, title, total_cents, green_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		receipt.ID, receipt.OwnerID, receipt.Title, toCents(receipt.Total), receipt.GreenScore, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i, item := range receipt.Items {
		var ecoScore sql.NullFloat64
		if item.EcoScore != nil {
			ecoScore = sql.NullFloat64{Float64: *item.EcoScore, Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO receipt_items (receipt_id, position, name, price_cents, eco_friendly, eco_score)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			receipt.ID, i, item.Name, toCents(item.Price), boolToInt(item.EcoFriendly), ecoScore,
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID, including its items.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	receipt, err := scanReceipt(s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, total_cents, green_score, created_at FROM receipts WHERE id = ?`,
		receiptID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if receipt.Items, err = s.receiptItems(ctx, receipt.ID); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListReceiptsByOwner returns all receipts of an owner, newest first.
func (s *SQLiteStore) ListReceiptsByOwner(ctx context.Context, ownerID string) ([]*models.Receipt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, title, total_cents, green_score, created_at
		 FROM receipts WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	rows.Close()

	for _, receipt := range receipts {
		if receipt.Items, err = s.receiptItems(ctx, receipt.ID); err != nil {
			return nil, err
		}
	}
	return receipts, nil
}

func (s *SQLiteStore) receiptItems(ctx context.Context, receiptID string) ([]models.ReceiptItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, price_cents, eco_friendly, eco_score
		 FROM receipt_items WHERE receipt_id = ? ORDER BY position`,
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt items: %w", err)
	}
	defer rows.Close()

	var items []models.ReceiptItem
	for rows.Next() {
		var (
			item        models.ReceiptItem
			priceCents  int64
			ecoFriendly int
			ecoScore    sql.NullFloat64
		)
		if err := rows.Scan(&item.Name, &priceCents, &ecoFriendly, &ecoScore); err != nil {
			return nil, fmt.Errorf("failed to scan receipt item: %w", err)
		}
		item.Price = fromCents(priceCents)
		item.EcoFriendly = ecoFriendly != 0
		if ecoScore.Valid {
			v := ecoScore.Float64
			item.EcoScore = &v
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt items: %w", err)
	}
	return items, nil
}

func scanReceipt(row scanner) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	var totalCents int64
	if err := row.Scan(&receipt.ID, &receipt.OwnerID, &receipt.Title, &totalCents, &receipt.GreenScore, &receipt.CreatedAt); err != nil {
		return nil, err
	}
	receipt.Total = fromCents(totalCents)
	return receipt, nil
}

// generateTitle creates the default receipt title from its creation time.
func generateTitle(createdAt int64) string {
	return fmt.Sprintf("Receipt %s", time.Unix(createdAt, 0).UTC().Format("2006-01-02 15:04"))
}
