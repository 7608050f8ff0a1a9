// Package main is the entry point for the sentiment-service HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/config"
	"github.com/fleveque/sentiment-service/internal/handler"
	"github.com/fleveque/sentiment-service/internal/llm"
	"github.com/fleveque/sentiment-service/internal/notify"
	"github.com/fleveque/sentiment-service/internal/server"
	"github.com/fleveque/sentiment-service/internal/service"
	"github.com/fleveque/sentiment-service/internal/storage"
)

func main() {
	// run() keeps deferred cleanup working; os.Exit would skip it.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("SENTIMENT_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; nothing to do about it.
	defer func() { _ = logger.Sync() }()

	calls, closeCalls, err := openCallLog(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer closeCalls()

	client, err := llm.New(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("creating completion client: %w", err)
	}

	dispatcher, err := notify.FromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("configuring forwarding: %w", err)
	}

	deps := server.Deps{
		Health: handler.NewHealthHandler(),
		Analyze: handler.NewAnalyzeHandler(
			service.NewNormalizer(logger),
			service.NewSentimentService(client, calls, logger),
			dispatcher,
			logger,
		),
	}

	logger.Info("completion client ready",
		zap.String("provider", client.ProviderName()),
		zap.String("model", client.ModelName()),
		zap.Duration("timeout", cfg.LLM.Timeout),
		zap.Bool("call_log", cfg.Storage.DatabasePath != ""),
	)

	srv := server.New(cfg, deps, logger)

	// SIGINT (Ctrl+C) or SIGTERM (docker stop) triggers a graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// In-flight analyses may be waiting on the upstream for the full timeout.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLM.Timeout+5*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// openCallLog returns the SQLite call log, or a no-op repository when dbPath is empty.
func openCallLog(dbPath string) (storage.CallRepository, func(), error) {
	if dbPath == "" {
		return storage.NopCallRepository{}, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.NewDatabase(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return storage.NewCallRepository(db), func() { _ = db.Close() }, nil
}
