package worker

import (
	"context"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/models"

	"github.com/rs/zerolog"
)

// LogSender writes each handoff to the log instead of a messaging channel.
// It is the sender the daemon runs with until a real channel adapter
// (WhatsApp, email) is plugged in behind domain.Sender.
type LogSender struct {
	logger *zerolog.Logger
}

func NewLogSender(logger *zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Deliver(ctx context.Context, n *models.Notification, channel string) error {
	s.logger.Info().
		Str("notification_id", n.ID).
		Str("type", n.Type).
		Str("channel", channel).
		Str("recipient", n.RecipientID).
		Str("priority", n.Priority).
		Str("title", n.Title).
		Msg("Notification handed off")
	return nil
}
