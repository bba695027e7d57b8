package calculator

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ecosplit/internal/models"
)

const (
	// DefaultLeaderboardLimit is used when TopScores is called with a non-positive limit.
	DefaultLeaderboardLimit = 10

	MinScore = 0
	MaxScore = 100
)

// ScoreReceipt returns the receipt's green score in 0..100.
//
// Each item contributes a weight in [0, 1]: the classifier's EcoScore when present,
// otherwise 1 for eco-friendly items and 0 for the rest. The score is the mean weight
// scaled to 100 and rounded half-up. An empty receipt scores 0.
func ScoreReceipt(items []models.ReceiptItem) int {
	if len(items) == 0 {
		return MinScore
	}
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(itemWeight(item))
	}
	// Exact decimal division so that x.5 ratios round up.
	score := sum.Mul(decimal.NewFromInt(MaxScore)).DivRound(decimal.NewFromInt(int64(len(items))), 0)
	return clampScore(int(score.IntPart()))
}

func itemWeight(item models.ReceiptItem) decimal.Decimal {
	if item.EcoScore != nil {
		w := *item.EcoScore
		if math.IsNaN(w) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(math.Max(0, math.Min(1, w)))
	}
	if item.EcoFriendly {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

func clampScore(score int) int {
	return max(MinScore, min(MaxScore, score))
}

// ValidateScore checks that a score is within 0..100.
func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: score %d out of range %d..%d", ErrInvalidArgument, score, MinScore, MaxScore)
	}
	return nil
}

// UpsertPeriodScore records newScore for (userID, period). An existing entry has its
// score replaced (last write wins, no averaging) and keeps its ID; otherwise a new entry
// is appended with an ID one past the largest in existing. It returns the resulting entry
// and the updated collection. existing is not modified.
func UpsertPeriodScore(existing []models.GreenScore, userID string, period models.Period, newScore int) (models.GreenScore, []models.GreenScore, error) {
	if userID == "" {
		return models.GreenScore{}, existing, fmt.Errorf("%w: user id is empty", ErrInvalidArgument)
	}
	if err := period.Validate(); err != nil {
		return models.GreenScore{}, existing, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := ValidateScore(newScore); err != nil {
		return models.GreenScore{}, existing, err
	}

	now := time.Now().Unix()
	updated := slices.Clone(existing)
	var nextID int64
	for i, s := range updated {
		if s.UserID == userID && s.Period == period {
			updated[i].Score = newScore
			updated[i].UpdatedAt = now
			return updated[i], updated, nil
		}
		nextID = max(nextID, s.ID)
	}

	entry := models.GreenScore{
		ID:        nextID + 1,
		UserID:    userID,
		Period:    period,
		Score:     newScore,
		UpdatedAt: now,
	}
	return entry, append(updated, entry), nil
}

// sortByScore returns a copy of scores ordered by score descending. Equal scores keep
// their creation order (lower ID first).
func sortByScore(scores []models.GreenScore) []models.GreenScore {
	sorted := slices.Clone(scores)
	slices.SortStableFunc(sorted, func(a, b models.GreenScore) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return sorted
}

// TopScores returns the limit highest-scoring entries, best first. Ties go to the entry
// created first. A non-positive limit means DefaultLeaderboardLimit.
func TopScores(all []models.GreenScore, limit int) []models.GreenScore {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	sorted := sortByScore(all)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// RankOf returns the 1-based position of userID's best entry in the full ranking, or
// len(all)+1 when the user has no entry.
func RankOf(all []models.GreenScore, userID string) int {
	for i, s := range sortByScore(all) {
		if s.UserID == userID {
			return i + 1
		}
	}
	return len(all) + 1
}

// PointsToNextRank returns how many points userID needs to reach the score of the entry
// directly above them. It is 0 for the leader. A user without an entry is treated as
// scoring 0 below the last place.
func PointsToNextRank(all []models.GreenScore, userID string) int {
	sorted := sortByScore(all)
	rank := RankOf(all, userID)
	if rank <= 1 || len(sorted) == 0 {
		return 0
	}
	own := 0
	if rank <= len(sorted) {
		own = sorted[rank-1].Score
	}
	return sorted[rank-2].Score - own
}

// FilterPeriod returns the entries recorded for period, preserving order.
func FilterPeriod(all []models.GreenScore, period models.Period) []models.GreenScore {
	var out []models.GreenScore
	for _, s := range all {
		if s.Period == period {
			out = append(out, s)
		}
	}
	return out
}
