package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fleveque/sentiment-service/internal/model"
)

// BatchItem is the outcome of one symbol in a batch.
type BatchItem struct {
	Symbol string
	Result *model.SentimentResult // nil when Err is set
	Err    error
}

// BatchStats summarizes a batch run.
type BatchStats struct {
	Total     int
	Succeeded int
	Degraded  int
	Failed    int
}

// BatchAnalyzer runs the analysis pipeline for many symbols with bounded concurrency.
type BatchAnalyzer struct {
	normalizer  *Normalizer
	sentiment   *SentimentService
	concurrency int
	logger      *zap.Logger
}

func NewBatchAnalyzer(normalizer *Normalizer, sentiment *SentimentService, concurrency int, logger *zap.Logger) *BatchAnalyzer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchAnalyzer{
		normalizer:  normalizer,
		sentiment:   sentiment,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run analyzes every symbol and calls callback once per symbol as results
// arrive. Callbacks are serialized. A failed symbol never stops the others;
// Run only returns early when ctx is cancelled.
func (b *BatchAnalyzer) Run(ctx context.Context, symbols []string, callback func(BatchItem)) (*BatchStats, error) {
	stats := &BatchStats{Total: len(symbols)}

	var mu sync.Mutex
	report := func(item BatchItem) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case item.Err != nil:
			stats.Failed++
		case item.Result.Outcome == model.OutcomeDegraded:
			stats.Degraded++
		default:
			stats.Succeeded++
		}
		if callback != nil {
			callback(item)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			req, err := b.normalizer.Normalize(map[string]any{"symbol": symbol})
			if err != nil {
				report(BatchItem{Symbol: symbol, Err: err})
				return nil
			}

			result, err := b.sentiment.Analyze(gctx, req.Formatted)
			report(BatchItem{Symbol: symbol, Result: result, Err: err})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	b.logger.Info("batch analysis complete",
		zap.Int("total", stats.Total),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("degraded", stats.Degraded),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}
