package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rawen554/mijikaku/internal/app"
	"github.com/rawen554/mijikaku/internal/config"
	"github.com/rawen554/mijikaku/internal/logger"
	"github.com/rawen554/mijikaku/internal/logic"
	"github.com/rawen554/mijikaku/internal/migrations"
	"github.com/rawen554/mijikaku/internal/store/fs"
	"github.com/rawen554/mijikaku/internal/store/memory"
	"github.com/rawen554/mijikaku/internal/store/postgres"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	connectTimeout    = 15 * time.Second
)

type storage interface {
	logic.Store
	Close()
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.ParseFlags()
	if err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	if _, err := logic.ValidateURL(cfg.RedirectBaseURL); err != nil {
		return fmt.Errorf("invalid base URL %q: %w", cfg.RedirectBaseURL, err)
	}

	logger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	coreLogic := logic.NewCoreLogic(cfg, store, logger.Named("logic"))
	srv := &http.Server{
		Addr:              cfg.RunAddr,
		Handler:           app.NewApp(cfg, coreLogic, logger.Named("app")).SetupRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s, short links under %s", cfg.RunAddr, cfg.RedirectBaseURL)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	return nil
}

// newStorage connects to Postgres and migrates the schema before anything is served.
// Without a DSN links go to the storage file, or stay in memory when none is set.
func newStorage(ctx context.Context, cfg *config.ServerConfig, logger *zap.SugaredLogger) (storage, error) {
	if cfg.DatabaseDSN == "" {
		if cfg.FileStoragePath != "" {
			logger.Warnf("DATABASE_DSN is empty, links are kept in %s", cfg.FileStoragePath)
			fileStorage, err := fs.NewFileStorage(cfg.FileStoragePath, logger.Named("fs_storage"))
			if err != nil {
				return nil, fmt.Errorf("error opening file storage: %w", err)
			}
			return fileStorage, nil
		}
		logger.Warn("DATABASE_DSN is empty, links are kept in memory")
		return memory.NewMemoryStorage(nil), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := migrations.Run(pool, logger.Named("migrations")); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return postgres.NewPostgresStore(pool), nil
}
