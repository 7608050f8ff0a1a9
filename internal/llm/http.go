package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// HTTPClient posts CompletionRequest verbatim to an OpenAI-compatible
// chat completions endpoint and reads the reply as raw text, so the body
// can be logged before it is parsed.
type HTTPClient struct {
	client   *resty.Client
	endpoint string
	apiKey   string
	model    string
	logger   *zap.Logger
}

// NewHTTPClient creates a client for endpoint, e.g. https://api.openai.com/v1/chat/completions.
// Retries are left at resty's default of zero.
func NewHTTPClient(endpoint, apiKey, model string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetLogger(logger.Sugar())

	return &HTTPClient{
		client:   client,
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		logger:   logger,
	}
}

func (h *HTTPClient) ProviderName() string { return "openai" }
func (h *HTTPClient) ModelName() string     { return h.model }

func (h *HTTPClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Model == "" {
		req.Model = h.model
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(h.apiKey).
		SetBody(req).
		Post(h.endpoint)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	body := resp.String()
	h.logger.Info("completion API response",
		zap.Int("status", resp.StatusCode()),
		zap.String("body", body),
	)

	if resp.StatusCode() != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode(), Body: body}
	}

	return extractContent(resp.Body())
}

// extractContent pulls choices[0].message.content out of a completion reply.
func extractContent(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errors.New("decoding completion response: invalid JSON")
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() || content.Type == gjson.Null {
		return "", fmt.Errorf("completion response has no choices[0].message.content")
	}
	return content.String(), nil
}
