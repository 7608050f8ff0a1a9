// Package main provides the CLI tool for the sentiment-service.
//
// Run with: go run ./cmd/cli analyze EUR/USD BTC/USDT --concurrency 4
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/config"
	"github.com/fleveque/sentiment-service/internal/llm"
	"github.com/fleveque/sentiment-service/internal/service"
	"github.com/fleveque/sentiment-service/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree:
// sentiment-cli analyze SYMBOL...
// sentiment-cli calls --limit 20
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sentiment-cli",
		Short: "Sentiment service CLI tools",
		// Failures are already reported by RunE; usage text would bury them.
		SilenceUsage: true,
	}

	root.AddCommand(analyzeCmd(), callsCmd())
	return root
}

func analyzeCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL...",
		Short: "Run a sentiment analysis for one or more symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args, concurrency)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "Maximum number of upstream calls in flight")
	return cmd
}

func callsCmd() *cobra.Command {
	var limit int
	var symbol string

	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Show recent entries from the upstream call log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalls(cmd.Context(), limit, symbol)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Also report the number of calls for this symbol (e.g. EUR/USD)")
	return cmd
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(os.Getenv("SENTIMENT_CONFIG_PATH"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	// Development logging for the CLI, on stderr so results stay pipeable.
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}

// signalContext is cancelled on Ctrl+C so a batch stops scheduling new calls.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func runAnalyze(parent context.Context, symbols []string, concurrency int) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	calls := storage.CallRepository(storage.NopCallRepository{})
	if cfg.Storage.DatabasePath != "" {
		db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		calls = storage.NewCallRepository(db)
	}

	client, err := llm.New(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("creating completion client: %w", err)
	}

	batch := service.NewBatchAnalyzer(
		service.NewNormalizer(logger),
		service.NewSentimentService(client, calls, logger),
		concurrency,
		logger,
	)

	ctx, cancel := signalContext(parent)
	defer cancel()

	stats, err := batch.Run(ctx, symbols, func(item service.BatchItem) {
		fmt.Println(renderItem(item))
	})
	if err != nil {
		return fmt.Errorf("batch analysis: %w", err)
	}

	fmt.Println(renderStats(stats))
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", stats.Failed, stats.Total)
	}
	return nil
}

func runCalls(parent context.Context, limit int, symbol string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Storage.DatabasePath == "" {
		return fmt.Errorf("call log is disabled: set storage.database_path or SENTIMENT_DATABASE_PATH")
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := signalContext(parent)
	defer cancel()

	repo := storage.NewCallRepository(db)

	summary, err := summarizeCalls(ctx, repo, symbol)
	if err != nil {
		return err
	}
	fmt.Println(renderSummary(summary))

	recent, err := repo.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		fmt.Println(dimStyle.Render("no upstream calls recorded"))
		return nil
	}
	for _, call := range recent {
		fmt.Println(renderCall(call))
	}
	return nil
}
