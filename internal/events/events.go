// Package events publishes domain events to other systems.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mmynk/ecosplit/internal/models"
)

// RoutingKeyScoreUpdated is the routing key of ScoreUpdated messages.
const RoutingKeyScoreUpdated = "greenscore.updated"

// Publisher delivers events. Publishing is best effort: callers log failures and
// carry on, since the score itself is already stored.
type Publisher interface {
	PublishScoreUpdated(ctx context.Context, msg *ScoreUpdated) error
	Close() error
}

// ScoreUpdated announces that a user's score for a period changed.
type ScoreUpdated struct {
	UserID    string    `json:"user_id"`
	ReceiptID string    `json:"receipt_id,omitempty"`
	Week      int       `json:"week"`
	Year      int       `json:"year"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// NewScoreUpdated builds the event for a stored score.
func NewScoreUpdated(gs *models.GreenScore, receiptID string) *ScoreUpdated {
	return &ScoreUpdated{
		UserID:    gs.UserID,
		ReceiptID: receiptID,
		Week:      gs.Period.Week,
		Year:      gs.Period.Year,
		Score:     gs.Score,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ScoreUpdated) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ScoreUpdatedFromJSON parses a message produced by ToJSON.
func ScoreUpdatedFromJSON(data []byte) (*ScoreUpdated, error) {
	var msg ScoreUpdated
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Noop discards every event.
type Noop struct{}

func (Noop) PublishScoreUpdated(context.Context, *ScoreUpdated) error { return nil }

func (Noop) Close() error { return nil }
