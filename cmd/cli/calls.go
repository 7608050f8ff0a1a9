package main

import (
	"context"
	"fmt"

	"github.com/fleveque/sentiment-service/internal/model"
	"github.com/fleveque/sentiment-service/internal/service"
	"github.com/fleveque/sentiment-service/internal/storage"
)

// callSummary holds the call log totals shown above the recent entries.
type callSummary struct {
	Succeeded int64
	Degraded  int64
	Failed    int64

	// Symbol is the formatted symbol asked for with --symbol, "" when none.
	Symbol      string
	SymbolCalls int64
}

func summarizeCalls(ctx context.Context, repo storage.CallRepository, symbol string) (*callSummary, error) {
	var s callSummary
	for outcome, dst := range map[model.Outcome]*int64{
		model.OutcomeSucceeded: &s.Succeeded,
		model.OutcomeDegraded:  &s.Degraded,
		model.OutcomeFailed:    &s.Failed,
	} {
		n, err := repo.CountByOutcome(ctx, outcome)
		if err != nil {
			return nil, fmt.Errorf("counting %s calls: %w", outcome, err)
		}
		*dst = n
	}

	if symbol != "" {
		// The log stores the symbol as sent upstream.
		s.Symbol = service.NormalizeSymbol(symbol)
		n, err := repo.CountBySymbol(ctx, s.Symbol)
		if err != nil {
			return nil, fmt.Errorf("counting calls for %s: %w", s.Symbol, err)
		}
		s.SymbolCalls = n
	}

	return &s, nil
}
