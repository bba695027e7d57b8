// Package cache caches per-period green score lists for the leaderboard.
package cache

import (
	"context"

	"github.com/mmynk/ecosplit/internal/models"
)

// LeaderboardCache stores the score list of one period. Implementations must treat a
// miss as (nil, false, nil); errors are reserved for backend failures.
type LeaderboardCache interface {
	Get(ctx context.Context, period models.Period) ([]models.GreenScore, bool, error)
	Set(ctx context.Context, period models.Period, scores []models.GreenScore) error
	Invalidate(ctx context.Context, period models.Period) error
}

// Noop never stores anything. It is used when no cache backend is configured.
type Noop struct{}

func (Noop) Get(context.Context, models.Period) ([]models.GreenScore, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, models.Period, []models.GreenScore) error { return nil }

func (Noop) Invalidate(context.Context, models.Period) error { return nil }
