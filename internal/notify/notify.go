// Package notify forwards finished analyses to downstream consumers.
// Forwarding is best effort: failures are reported to the caller, which
// logs them and carries on.
package notify

import (
	"context"

	"github.com/fleveque/sentiment-service/internal/model"
)

// Notifier delivers one analysis to a downstream consumer.
type Notifier interface {
	Notify(ctx context.Context, analysis model.ForwardedAnalysis) error
	Name() string
}
