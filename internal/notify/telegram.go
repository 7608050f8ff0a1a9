package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fleveque/sentiment-service/internal/model"
)

// telegramSender is the part of *tgbotapi.BotAPI the notifier needs.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts analyses straight to a Telegram chat.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

// NewTelegramNotifier connects to the Bot API with botToken.
// NewBotAPI calls getMe, so a bad token fails here rather than on first use.
// timeout bounds every Bot API request, including the startup check.
func NewTelegramNotifier(botToken string, chatID int64, timeout time.Duration) (*TelegramNotifier, error) {
	return newTelegramNotifier(botToken, chatID, tgbotapi.APIEndpoint, timeout)
}

func newTelegramNotifier(botToken string, chatID int64, endpoint string, timeout time.Duration) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required when a bot token is set")
	}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("creating bot API: %w", err)
	}
	bot.Debug = false

	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Name() string { return "telegram" }

// Notify sends one message. The Bot API client has no context support, so
// ctx is only checked before sending; the client timeout bounds the call.
func (n *TelegramNotifier) Notify(ctx context.Context, analysis model.ForwardedAnalysis) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	msg := tgbotapi.NewMessage(n.chatID, FormatMessage(analysis))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}

// FormatMessage renders an analysis as chat text.
func FormatMessage(analysis model.ForwardedAnalysis) string {
	return fmt.Sprintf("📊 %s\n\n%s", analysis.Symbol, analysis.Sentiment)
}
