package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamDeadLetters receives sync deliveries that exhausted every retry.
// Entries are kept for operator inspection and manual replay.
const StreamDeadLetters = "tracker:deadletter"

// DeadLetterEntry records one abandoned delivery attempt.
type DeadLetterEntry struct {
	BriefID  string `json:"brief_id"`
	Status   string `json:"status"`
	MarkURL  string `json:"mark_url"`
	Error    string `json:"error"`
	Attempts int    `json:"attempts"`
}

// DeadLetter publishes abandoned sync deliveries to a Redis Stream.
type DeadLetter struct {
	rdb *redis.Client
}

// NewDeadLetter creates a DeadLetter publisher from a Redis URL.
func NewDeadLetter(redisURL string) (*DeadLetter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &DeadLetter{rdb: redis.NewClient(opts)}, nil
}

// Publish appends an entry to the dead-letter stream and returns its id.
func (d *DeadLetter) Publish(ctx context.Context, entry DeadLetterEntry) (string, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal entry: %w", err)
	}

	result := d.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamDeadLetters,
		MaxLen: 10000,
		Approx: true,
		ID:     "*", // auto-generate ID
		Values: map[string]interface{}{
			"payload":      string(payload),
			"abandoned_at": time.Now().Unix(),
		},
	})

	if result.Err() != nil {
		return "", fmt.Errorf("failed to publish to stream: %w", result.Err())
	}

	return result.Val(), nil
}

// Close closes the Redis client connection
func (d *DeadLetter) Close() error {
	return d.rdb.Close()
}
