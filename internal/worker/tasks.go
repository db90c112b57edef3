package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/exposure-hq/briefdesk/internal/briefs"
)

// Task type constants
const (
	TaskTrackerSync = "tracker:sync"
)

// Enqueuer hands tracker sync requests to the background worker. It is the
// async seam between a creator's submission and the external tracker: the
// submission succeeds the moment the enqueue does, and delivery (with retry)
// is the worker's problem.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer creates an Enqueuer connected to the given Redis instance.
func NewEnqueuer(redisURL string) (*Enqueuer, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, err
	}
	return &Enqueuer{client: asynq.NewClient(opt)}, nil
}

// SyncSubmission enqueues a tracker sync task. Retries up to 5 times with
// asynq's default backoff, times out each attempt at one minute, and retains
// the task record for a day after completion.
func (e *Enqueuer) SyncSubmission(ctx context.Context, req briefs.SyncRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	task := asynq.NewTask(
		TaskTrackerSync,
		payload,
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
		asynq.Retention(24*time.Hour),
	)

	_, err = e.client.EnqueueContext(ctx, task)
	return err
}

// Close closes the underlying Asynq client connection.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
