package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/model"
)

// HTTPForwarder posts analyses to the relay service at <baseURL>/send,
// which takes care of publishing them to Telegram.
type HTTPForwarder struct {
	client *resty.Client
}

// NewHTTPForwarder creates a forwarder for the relay service at baseURL.
func NewHTTPForwarder(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPForwarder {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)
	client.SetLogger(logger.Sugar())
	return &HTTPForwarder{client: client}
}

func (f *HTTPForwarder) Name() string { return "http" }

func (f *HTTPForwarder) Notify(ctx context.Context, analysis model.ForwardedAnalysis) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetBody(analysis).
		Post("/send")
	if err != nil {
		return fmt.Errorf("posting to relay: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("relay returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
