// Package service contains the analysis pipeline: request normalization
// followed by one completion call whose outcome is mapped onto a sentiment text.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/llm"
	"github.com/fleveque/sentiment-service/internal/model"
	"github.com/fleveque/sentiment-service/internal/storage"
)

// SentimentService turns a normalized symbol into a sentiment text.
//
// Upstream failures with a status code or at the transport level are
// recovered into a degraded placeholder text. Anything else, such as a 200
// reply without choices, is returned as an error for the handler to report.
type SentimentService struct {
	client llm.Client
	calls  storage.CallRepository
	logger *zap.Logger
}

// NewSentimentService wires the completion client and the call log.
// Pass storage.NopCallRepository{} when the call log is disabled.
func NewSentimentService(client llm.Client, calls storage.CallRepository, logger *zap.Logger) *SentimentService {
	return &SentimentService{
		client: client,
		calls:  calls,
		logger: logger,
	}
}

// Analyze issues exactly one completion call for symbol.
func (s *SentimentService) Analyze(ctx context.Context, symbol string) (*model.SentimentResult, error) {
	req := llm.NewAnalysisRequest(s.client.ModelName(), symbol)

	s.logger.Info("sending request to completion API",
		zap.String("symbol", symbol),
		zap.String("provider", s.client.ProviderName()),
		zap.String("model", s.client.ModelName()),
	)

	start := time.Now()
	text, err := s.client.Complete(ctx, req)
	call := &model.UpstreamCall{
		Symbol:     symbol,
		Provider:   s.client.ProviderName(),
		Model:      s.client.ModelName(),
		DurationMs: time.Since(start).Milliseconds(),
	}

	var (
		statusErr    *llm.StatusError
		transportErr *llm.TransportError
		result       *model.SentimentResult
	)

	switch {
	case err == nil:
		call.Outcome = model.OutcomeSucceeded
		result = &model.SentimentResult{Text: text, Outcome: model.OutcomeSucceeded}

	case errors.As(err, &statusErr):
		s.logger.Error("completion API error",
			zap.String("symbol", symbol),
			zap.Int("status", statusErr.StatusCode),
			zap.String("body", statusErr.Body),
		)
		call.Outcome = model.OutcomeDegraded
		call.StatusCode = &statusErr.StatusCode
		result = &model.SentimentResult{
			Text:    model.DegradedSentiment(statusErr.StatusCode),
			Outcome: model.OutcomeDegraded,
		}

	case errors.As(err, &transportErr):
		s.logger.Error("completion API request failed",
			zap.String("symbol", symbol),
			zap.Error(transportErr.Err),
		)
		call.Outcome = model.OutcomeDegraded
		result = &model.SentimentResult{
			Text:    model.DegradedSentiment(transportErr.Error()),
			Outcome: model.OutcomeDegraded,
		}

	default:
		call.Outcome = model.OutcomeFailed
	}

	if err != nil {
		msg := err.Error()
		call.Error = &msg
	}
	s.record(ctx, call)

	if result == nil {
		return nil, fmt.Errorf("analyzing %s: %w", symbol, err)
	}
	return result, nil
}

// record writes the call log entry. It survives cancellation of the
// inbound request so that aborted calls are still counted.
func (s *SentimentService) record(ctx context.Context, call *model.UpstreamCall) {
	if err := s.calls.Create(context.WithoutCancel(ctx), call); err != nil {
		s.logger.Error("recording upstream call", zap.Error(err))
	}
}
