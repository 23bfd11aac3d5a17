// Package notify delivers new-reservation alerts to the operator. Delivery
// failure never blocks persistence; callers log and move on.
package notify

import (
	"context"
	"fmt"

	"reservas/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

type Notifier interface {
	ReservationCreated(ctx context.Context, reservation models.Reservation) error
}

// Noop discards notifications; used when no channel is configured.
type Noop struct{}

func (Noop) ReservationCreated(context.Context, models.Reservation) error { return nil }

// Telegram pushes a formatted summary to the operator chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zerolog.Logger
}

func NewTelegram(token string, chatID int64, logger *zerolog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *Telegram) ReservationCreated(ctx context.Context, r models.Reservation) error {
	text := fmt.Sprintf(
		"Nueva reservación\n%s\n%s / %s\nCheck-In: %s\nCheck-Out: %s\nPersonas: %d adultos, %d niños",
		r.FullName, r.Email, r.Phone, r.CheckIn, r.CheckOut, r.Adults, r.Children,
	)
	if r.Occasion != "" {
		text += fmt.Sprintf("\nOcasión: %s", models.FormatOccasion(r.Occasion))
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram notification: %w", err)
	}

	t.logger.Info().Int64("reservation_id", r.ID).Msg("operator notified")
	return nil
}
