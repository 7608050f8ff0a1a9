package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/model"
	"github.com/fleveque/sentiment-service/internal/notify"
	"github.com/fleveque/sentiment-service/internal/service"
)

const symbolRequiredDetail = "Symbol is required"

// AnalyzeHandler runs the analysis pipeline: normalize, fetch, forward.
type AnalyzeHandler struct {
	normalizer *service.Normalizer
	sentiment  *service.SentimentService
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler. dispatcher may be nil.
func NewAnalyzeHandler(
	normalizer *service.Normalizer,
	sentiment *service.SentimentService,
	dispatcher *notify.Dispatcher,
	logger *zap.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		normalizer: normalizer,
		sentiment:  sentiment,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Analyze returns the market sentiment for a symbol.
// Route: POST /analyze  {"symbol": "EUR/USD"}
//
// Only a missing symbol produces an error status (400). Every other failure
// is answered with 200 and an ErrorResponse body, which existing clients
// rely on.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		// Nothing was extracted yet, so the payload carries a null symbol.
		h.fail(c, fmt.Errorf("reading request body: %w", err), nil)
		return
	}

	req, err := h.normalizer.Normalize(body)
	if errors.Is(err, service.ErrSymbolRequired) {
		c.JSON(http.StatusBadRequest, model.ValidationErrorResponse{Detail: symbolRequiredDetail})
		return
	}
	if err != nil {
		h.fail(c, err, body["symbol"])
		return
	}

	result, err := h.sentiment.Analyze(c.Request.Context(), req.Formatted)
	if err != nil {
		h.fail(c, err, req.Symbol)
		return
	}

	h.logger.Info("sentiment analysis completed",
		zap.String("symbol", req.Symbol),
		zap.String("outcome", string(result.Outcome)),
	)

	// Forwarding outlives a client that hangs up after the analysis is done.
	h.dispatcher.Dispatch(context.WithoutCancel(c.Request.Context()), req.Symbol, result.Text)

	c.JSON(http.StatusOK, model.AnalysisResponse{
		Symbol:    req.Symbol,
		Sentiment: result.Text,
	})
}

func (h *AnalyzeHandler) fail(c *gin.Context, err error, symbol any) {
	h.logger.Error("analyzing sentiment",
		zap.Any("symbol", symbol),
		zap.Error(err),
	)
	c.JSON(http.StatusOK, model.ErrorResponse{
		Error:     err.Error(),
		Symbol:    symbol,
		Sentiment: model.UnavailableMessage,
	})
}
