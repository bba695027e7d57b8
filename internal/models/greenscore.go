package models

import (
	"fmt"
	"time"
)

// Period identifies one ISO week.
type Period struct {
	Week int // 1..53
	Year int
}

// PeriodOf returns the ISO week containing t.
func PeriodOf(t time.Time) Period {
	year, week := t.ISOWeek()
	return Period{Week: week, Year: year}
}

// Validate reports whether the period is in range.
func (p Period) Validate() error {
	if p.Week < 1 || p.Week > 53 {
		return fmt.Errorf("week %d out of range 1..53", p.Week)
	}
	if p.Year < 1 {
		return fmt.Errorf("year %d out of range", p.Year)
	}
	return nil
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Week == 0 && p.Year == 0
}

func (p Period) String() string {
	return fmt.Sprintf("%d-W%02d", p.Year, p.Week)
}

// GreenScore is a user's score for one period. There is at most one per (UserID, Period).
type GreenScore struct {
	// ID increases monotonically with creation order and breaks leaderboard ties.
	// It does not change when the score is updated.
	ID int64

	UserID string
	Period Period

	// Score is in 0..100.
	Score int

	// UpdatedAt is the Unix timestamp of the last write.
	UpdatedAt int64
}
