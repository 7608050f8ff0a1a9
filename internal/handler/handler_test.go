package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/llm"
	"github.com/fleveque/sentiment-service/internal/model"
	"github.com/fleveque/sentiment-service/internal/notify"
	"github.com/fleveque/sentiment-service/internal/service"
	"github.com/fleveque/sentiment-service/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newRouter wires the real pipeline against a fake completion API served by upstream.
func newRouter(t *testing.T, upstream http.HandlerFunc, timeout time.Duration, notifiers ...notify.Notifier) *gin.Engine {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	client := llm.NewHTTPClient(srv.URL+"/v1/chat/completions", "sk-test", "gpt-4-0125-preview", timeout, logger)
	sentiment := service.NewSentimentService(client, storage.NopCallRepository{}, logger)
	analyze := NewAnalyzeHandler(service.NewNormalizer(logger), sentiment, notify.NewDispatcher(logger, notifiers...), logger)

	router := gin.New()
	router.POST("/analyze", analyze.Analyze)
	router.GET("/health", NewHealthHandler().Health)
	return router
}

func completion(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body, _ := json.Marshal(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
		_, _ = w.Write(body)
	}
}

func post(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestAnalyze_Success(t *testing.T) {
	router := newRouter(t, completion("X"), time.Second)

	w := post(router, `{"symbol": "EUR/USD"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	got := decode(t, w)
	want := map[string]any{"symbol": "EUR/USD", "sentiment": "X"}
	if len(got) != len(want) || got["symbol"] != want["symbol"] || got["sentiment"] != want["sentiment"] {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAnalyze_MissingSymbol(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an invalid request")
	}, time.Second)

	for _, body := range []string{`{}`, `{"symbol": ""}`, `{"symbol": null}`} {
		w := post(router, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}
		if w.Body.String() != `{"detail":"Symbol is required"}` {
			t.Errorf("%s: unexpected body %s", body, w.Body.String())
		}
	}
}

func TestAnalyze_UpstreamStatusError(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}, time.Second)

	w := post(router, `{"symbol": "EUR/USD"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	got := decode(t, w)
	if got["symbol"] != "EUR/USD" {
		t.Errorf("expected symbol EUR/USD, got %v", got["symbol"])
	}
	if got["sentiment"] != "Market sentiment analysis temporarily unavailable (Error: 429)" {
		t.Errorf("unexpected sentiment %v", got["sentiment"])
	}
}

func TestAnalyze_UpstreamTimeout(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)

	w := post(router, `{"symbol": "EUR/USD"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	sentiment, _ := decode(t, w)["sentiment"].(string)
	prefix := "Market sentiment analysis temporarily unavailable (Error: "
	if !strings.HasPrefix(sentiment, prefix) || len(sentiment) <= len(prefix)+1 {
		t.Errorf("expected degraded sentiment with failure description, got %q", sentiment)
	}
}

func TestAnalyze_MalformedUpstreamReply(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}, time.Second)

	w := post(router, `{"symbol": "EUR/USD"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	got := decode(t, w)
	if got["error"] == nil || got["error"] == "" {
		t.Error("expected error message in payload")
	}
	if got["symbol"] != "EUR/USD" {
		t.Errorf("expected original symbol, got %v", got["symbol"])
	}
	if got["sentiment"] != "Market sentiment analysis temporarily unavailable" {
		t.Errorf("unexpected sentiment %v", got["sentiment"])
	}
}

func TestAnalyze_MalformedRequestBody(t *testing.T) {
	router := newRouter(t, completion("X"), time.Second)

	w := post(router, `{"symbol": `)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	got := decode(t, w)
	symbol, present := got["symbol"]
	if !present || symbol != nil {
		t.Errorf("expected symbol to be null, got %v (present=%v)", symbol, present)
	}
	if got["sentiment"] != "Market sentiment analysis temporarily unavailable" {
		t.Errorf("unexpected sentiment %v", got["sentiment"])
	}
}

func TestAnalyze_NonStringSymbolIsEchoed(t *testing.T) {
	router := newRouter(t, completion("X"), time.Second)

	w := post(router, `{"symbol": 42}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if s := gjson.Get(w.Body.String(), "symbol"); s.Int() != 42 {
		t.Errorf("expected symbol 42 echoed back, got %s", s.Raw)
	}
}

func TestAnalyze_SendsFormattedSymbolUpstream(t *testing.T) {
	var prompt string
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		prompt = gjson.GetBytes(b, "messages.1.content").String()
		completion("ok")(w, r)
	}, time.Second)

	post(router, `{"symbol": "EUR/USD"}`)
	if !strings.Contains(prompt, "market sentiment for EURUSD based on") {
		t.Errorf("expected formatted symbol in prompt, got %q", prompt)
	}
}

type captureNotifier struct {
	mu      sync.Mutex
	symbols []string
}

func (c *captureNotifier) Name() string { return "capture" }

func (c *captureNotifier) Notify(_ context.Context, a model.ForwardedAnalysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.symbols = append(c.symbols, a.Symbol)
	return nil
}

func TestAnalyze_ForwardsResult(t *testing.T) {
	capture := &captureNotifier{}
	router := newRouter(t, completion("X"), time.Second, capture)

	post(router, `{"symbol": "EUR/USD"}`)
	post(router, `{}`)

	if len(capture.symbols) != 1 || capture.symbols[0] != "EUR/USD" {
		t.Errorf("expected one forwarded analysis for EUR/USD, got %v", capture.symbols)
	}
}

func TestAnalyze_ConcurrentRequestsAreIndependent(t *testing.T) {
	symbolInPrompt := regexp.MustCompile(`market sentiment for (\S+) based on`)
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		m := symbolInPrompt.FindStringSubmatch(gjson.GetBytes(b, "messages.1.content").String())
		if len(m) != 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		time.Sleep(20 * time.Millisecond)
		completion("analysis of " + m[1])(w, r)
	}, time.Second)

	symbols := []string{"EUR/USD", "GBP/JPY", "BTC/USDT", "AAPL"}
	var wg sync.WaitGroup
	results := make([]map[string]any, len(symbols))
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			body := fmt.Sprintf(`{"symbol": %q}`, sym)
			req := httptest.NewRequest("POST", "/analyze", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			var out map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			results[i] = out
		}(i, sym)
	}
	wg.Wait()

	for i, sym := range symbols {
		if results[i]["symbol"] != sym {
			t.Errorf("request %d: expected symbol %s, got %v", i, sym, results[i]["symbol"])
		}
		want := "analysis of " + service.NormalizeSymbol(sym)
		if results[i]["sentiment"] != want {
			t.Errorf("request %d: expected %q, got %v", i, want, results[i]["sentiment"])
		}
	}
}

func TestHealth(t *testing.T) {
	router := newRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("health must not call upstream")
	}, time.Second)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != `{"status":"healthy"}` {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
