package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/exposure-hq/briefdesk/internal/briefs"
	"github.com/exposure-hq/briefdesk/internal/config"
	"github.com/exposure-hq/briefdesk/internal/tracker"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, trackerClient *tracker.Client, deadLetter *tracker.DeadLetter) error {
	srv, mux, err := newServer(cfg, trackerClient, deadLetter)
	if err != nil {
		return err
	}
	// Run blocks and handles its own signal interception
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop function.
// Use this for embedded mode so the caller can coordinate shutdown.
func Start(cfg *config.Config, trackerClient *tracker.Client, deadLetter *tracker.DeadLetter) (stop func(), err error) {
	srv, mux, err := newServer(cfg, trackerClient, deadLetter)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, trackerClient *tracker.Client, deadLetter *tracker.DeadLetter) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger, deadLetter)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTrackerSync, handleTrackerSync(logger, trackerClient))

	logger.Info("Worker starting", "concurrency", 5, "redis", cfg.RedisURL)
	return srv, mux, nil
}

// handleTrackerSync delivers one persisted submission to the external
// tracker. Delivery errors are retryable; a malformed payload is not.
func handleTrackerSync(logger *slog.Logger, trackerClient *tracker.Client) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var req briefs.SyncRequest
		if err := json.Unmarshal(task.Payload(), &req); err != nil {
			// Invalid payload - don't retry
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		logger.Info(
			"Processing tracker:sync task",
			"brief_id", req.BriefID,
			"status", req.Status,
		)

		result, err := trackerClient.Notify(ctx, tracker.Payload{
			Action:  tracker.ActionUpdateStatus,
			BriefID: req.BriefID,
			Status:  req.Status,
			MarkURL: req.MarkURL,
		})
		if err != nil {
			// Tracker may be temporarily unavailable - retryable
			logger.Warn(
				"Tracker sync attempt failed",
				"brief_id", req.BriefID,
				"error", err.Error(),
			)
			return fmt.Errorf("tracker sync failed: %w", err)
		}

		logger.Info(
			"Tracker sync completed",
			"brief_id", req.BriefID,
			"message", result.Message,
		)
		return nil
	}
}

// makeErrorHandler creates an error handler function with logger closure.
// When a sync task exhausts its retries the payload is parked on the
// dead-letter stream for manual replay.
func makeErrorHandler(logger *slog.Logger, deadLetter *tracker.DeadLetter) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		if retried < maxRetry {
			return
		}

		logger.Error(
			"Task abandoned (all retries exhausted)",
			"task_type", task.Type(),
			"payload", string(task.Payload()),
		)

		if task.Type() != TaskTrackerSync || deadLetter == nil {
			return
		}

		var req briefs.SyncRequest
		if jsonErr := json.Unmarshal(task.Payload(), &req); jsonErr != nil {
			return
		}
		entry := tracker.DeadLetterEntry{
			BriefID:  req.BriefID,
			Status:   req.Status,
			MarkURL:  req.MarkURL,
			Error:    err.Error(),
			Attempts: retried + 1,
		}
		if _, dlErr := deadLetter.Publish(ctx, entry); dlErr != nil {
			logger.Error("Failed to publish dead letter", "brief_id", req.BriefID, "error", dlErr.Error())
		}
	}
}
