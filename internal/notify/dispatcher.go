package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/config"
	"github.com/fleveque/sentiment-service/internal/model"
)

// Dispatcher fans an analysis out to every configured Notifier.
// A nil or empty Dispatcher does nothing.
type Dispatcher struct {
	notifiers []Notifier
	logger    *zap.Logger
}

// NewDispatcher wraps the given notifiers.
func NewDispatcher(logger *zap.Logger, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, logger: logger}
}

// FromConfig builds the notifiers enabled in cfg. forward.timeout bounds each
// notifier's requests. A Telegram setup error is returned so misconfiguration
// shows up at startup.
func FromConfig(cfg *config.Config, logger *zap.Logger) (*Dispatcher, error) {
	var notifiers []Notifier

	if cfg.Forward.URL != "" {
		notifiers = append(notifiers, NewHTTPForwarder(cfg.Forward.URL, cfg.Forward.Timeout, logger))
	}

	if cfg.Telegram.BotToken != "" {
		tg, err := NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Forward.Timeout)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tg)
	}

	return NewDispatcher(logger, notifiers...), nil
}

// Dispatch sends the analysis to each notifier in turn and logs failures.
// It never returns an error: forwarding must not change the caller's response.
func (d *Dispatcher) Dispatch(ctx context.Context, symbol, sentiment string) {
	if d == nil || len(d.notifiers) == 0 {
		return
	}

	analysis := model.ForwardedAnalysis{
		Symbol:    symbol,
		Sentiment: sentiment,
		Type:      model.ForwardTypeMarketSentiment,
	}

	for _, n := range d.notifiers {
		if err := n.Notify(ctx, analysis); err != nil {
			d.logger.Error("forwarding analysis",
				zap.String("notifier", n.Name()),
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		}
	}
}
