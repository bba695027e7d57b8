package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/ecosplit/internal/models"
)

const namespace = "leaderboard:v1"

var _ LeaderboardCache = (*Redis)(nil)

// Redis is a LeaderboardCache backed by a Redis server.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// scoreEntry is the cached form of models.GreenScore.
type scoreEntry struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Week      int    `json:"week"`
	Year      int    `json:"year"`
	Score     int    `json:"score"`
	UpdatedAt int64  `json:"updated_at"`
}

// Connect dials addr and verifies the connection with a PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              0,
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
		MaxRetries:      3,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewRedis wraps an existing client. Entries expire after ttl.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Key formats the cache key for a period.
func Key(period models.Period) string {
	return namespace + ":" + period.String()
}

func (c *Redis) Get(ctx context.Context, period models.Period) ([]models.GreenScore, bool, error) {
	data, err := c.client.Get(ctx, Key(period)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	scores, err := decodeScores(data)
	if err != nil {
		return nil, false, err
	}
	return scores, true, nil
}

func (c *Redis) Set(ctx context.Context, period models.Period, scores []models.GreenScore) error {
	data, err := encodeScores(scores)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, Key(period), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *Redis) Invalidate(ctx context.Context, period models.Period) error {
	if err := c.client.Del(ctx, Key(period)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func encodeScores(scores []models.GreenScore) ([]byte, error) {
	entries := make([]scoreEntry, len(scores))
	for i, s := range scores {
		entries[i] = scoreEntry{
			ID:        s.ID,
			UserID:    s.UserID,
			Week:      s.Period.Week,
			Year:      s.Period.Year,
			Score:     s.Score,
			UpdatedAt: s.UpdatedAt,
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode scores: %w", err)
	}
	return data, nil
}

func decodeScores(data []byte) ([]models.GreenScore, error) {
	var entries []scoreEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	scores := make([]models.GreenScore, len(entries))
	for i, e := range entries {
		scores[i] = models.GreenScore{
			ID:        e.ID,
			UserID:    e.UserID,
			Period:    models.Period{Week: e.Week, Year: e.Year},
			Score:     e.Score,
			UpdatedAt: e.UpdatedAt,
		}
	}
	return scores, nil
}
