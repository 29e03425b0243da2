// Package notifier contains the transports that deliver rendered notifications.
package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/bonusledger/internal/domain"
)

// LogTransport writes messages to the log.
type LogTransport struct {
	logger zerolog.Logger
}

// NewLogTransport creates a new LogTransport.
func NewLogTransport(logger zerolog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

// Send logs the message.
func (t *LogTransport) Send(_ context.Context, msg *domain.Message) error {
	t.logger.Info().
		Str("message_id", msg.ID).
		Str("type", msg.Type).
		Str("account_id", msg.AccountID).
		Int64("chat_id", msg.ChatID).
		Str("locale", msg.Locale).
		Str("text", msg.Text).
		Msg("notification")
	return nil
}
