// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/ecosplit/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned (wrapped) when a unique key is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the persistence operations used by the services.
// This abstraction allows swapping storage backends (SQLite, in-memory, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	ReceiptStore
	GreenScoreStore
	SplitStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. It returns ErrAlreadyExists if the username
	// or ID is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns ErrNotFound if no user has the username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// ReceiptStore persists receipts and their items.
type ReceiptStore interface {
	// CreateReceipt persists a receipt with its items.
	// ID and CreatedAt are populated by the store when unset.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt returns ErrNotFound if the receipt does not exist.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// ListReceiptsByOwner returns the owner's receipts, newest first.
	ListReceiptsByOwner(ctx context.Context, ownerID string) ([]*models.Receipt, error)
}

// GreenScoreStore persists per-user, per-period green scores.
type GreenScoreStore interface {
	// UpsertGreenScore atomically inserts or replaces the score for
	// (userID, period) and returns the stored entry. Concurrent writers on the same
	// key resolve to last write wins; an entry keeps its ID across updates.
	UpsertGreenScore(ctx context.Context, userID string, period models.Period, score int) (*models.GreenScore, error)

	// GetGreenScore returns ErrNotFound if the user has no score for the period.
	GetGreenScore(ctx context.Context, userID string, period models.Period) (*models.GreenScore, error)

	// ListGreenScores returns entries in creation order. A nil period lists all periods.
	ListGreenScores(ctx context.Context, period *models.Period) ([]models.GreenScore, error)
}

// SplitStore persists finalized bill splits.
type SplitStore interface {
	// CreateSplit persists a split. ID and CreatedAt are populated when unset.
	CreateSplit(ctx context.Context, split *models.Split) error

	// ListSplitsByOwner returns the owner's splits, newest first.
	ListSplitsByOwner(ctx context.Context, ownerID string) ([]*models.Split, error)
}
