package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/exposure-hq/briefdesk/internal/api"
	"github.com/exposure-hq/briefdesk/internal/auth"
	"github.com/exposure-hq/briefdesk/internal/authz"
	"github.com/exposure-hq/briefdesk/internal/briefs"
	"github.com/exposure-hq/briefdesk/internal/config"
	"github.com/exposure-hq/briefdesk/internal/database"
	"github.com/exposure-hq/briefdesk/internal/models"
	"github.com/exposure-hq/briefdesk/internal/tracker"
	"github.com/exposure-hq/briefdesk/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if cfg.Env == "development" {
		if err := database.SeedDevData(db); err != nil {
			log.Printf("WARNING: dev seed failed: %v", err)
		}
	}

	if cfg.EncryptionKey != "" {
		if err := models.InitEncryption(cfg.EncryptionKey); err != nil {
			log.Fatalf("encryption init failed: %v", err)
		}
	} else {
		log.Println("WARNING: ENCRYPTION_KEY not set. Payout fields will be stored in plaintext.")
	}

	auth.InitProviders(cfg)

	trackerClient := tracker.NewClient(cfg.TrackerURL, cfg.TrackerSecret, cfg.TrackerStubMode)

	// Sync delivery: with Redis configured, submissions enqueue a worker task
	// that retries and dead-letters; without it, delivery is a single inline
	// attempt. Either way a tracker failure never fails a submission.
	var syncer briefs.Syncer
	var stopWorker func()
	if cfg.RedisURL != "" {
		enqueuer, err := worker.NewEnqueuer(cfg.RedisURL)
		if err != nil {
			log.Fatalf("worker client init failed: %v", err)
		}
		defer enqueuer.Close()
		syncer = enqueuer

		deadLetter, err := tracker.NewDeadLetter(cfg.RedisURL)
		if err != nil {
			log.Fatalf("dead letter init failed: %v", err)
		}
		defer deadLetter.Close()

		stopWorker, err = worker.Start(cfg, trackerClient, deadLetter)
		if err != nil {
			log.Fatalf("worker start failed: %v", err)
		}
		defer stopWorker()
	} else {
		log.Println("REDIS_URL not set, tracker sync will run inline without retry")
		syncer = inlineSyncer{client: trackerClient}
	}

	gate := authz.NewGate(cfg.AdminEmails)
	store := briefs.NewGormStore(db)
	svc := briefs.NewService(store, gate, syncer, logger)

	router := api.NewRouter(cfg, db, svc)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

// inlineSyncer delivers tracker updates synchronously when no Redis-backed
// worker is available.
type inlineSyncer struct {
	client *tracker.Client
}

func (s inlineSyncer) SyncSubmission(ctx context.Context, req briefs.SyncRequest) error {
	_, err := s.client.Notify(ctx, tracker.Payload{
		Action:  tracker.ActionUpdateStatus,
		BriefID: req.BriefID,
		Status:  req.Status,
		MarkURL: req.MarkURL,
	})
	return err
}
