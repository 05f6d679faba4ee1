package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fernheilpraxis/clinic-api/catalog"
	"github.com/fernheilpraxis/clinic-api/composer"
	"github.com/fernheilpraxis/clinic-api/config"
	"github.com/fernheilpraxis/clinic-api/exporter"
	"github.com/fernheilpraxis/clinic-api/handlers"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/fernheilpraxis/clinic-api/scheduler"
	"github.com/fernheilpraxis/clinic-api/server"
	"github.com/fernheilpraxis/clinic-api/session"
	"github.com/fernheilpraxis/clinic-api/store"
	"github.com/joho/godotenv"
)

// openStore picks the configured document store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.DocumentStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreFirestore:
		fs, err := store.NewFirestoreStore(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("connect firestore: %w", err)
		}
		return fs, func() { _ = fs.Close() }, nil

	case config.StoreMongo:
		ms, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		return ms, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = ms.Close(closeCtx)
		}, nil

	default:
		return store.NewMemStore(), func() {}, nil
	}
}

func main() {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Configuration error:", err)
		os.Exit(1)
	}

	logging.Init("logs", cfg.LogLevel, cfg.LogRetentionWeeks, cfg.MaxLogFileSize)
	defer logging.Shutdown()

	ctx := context.Background()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logging.Error("Failed to open document store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	cat := catalog.New(st)
	comp := composer.New()
	exp := exporter.New(st, cfg)
	gate := session.NewManager(st, cfg.FallbackPasscode)

	sched := scheduler.NewScheduler(cat, cfg.CatalogRefreshAt)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	h := handlers.New(st, cat, comp, exp, gate, cfg.CatalogRefreshAt)
	srv := server.NewServer(cfg, h)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Shutdown failed", "error", err)
	}
}
