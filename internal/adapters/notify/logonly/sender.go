package logonly

import (
	"context"

	"pet-grooming-manager/internal/platform/logger"
	"pet-grooming-manager/internal/ports/notify"
)

// Sender solo registra el mensaje. Es el default en dev: la entrega por
// WhatsApp/email no existe todavía.
type Sender struct {
	log logger.Logger
}

func NewSender(log logger.Logger) *Sender {
	if log == nil {
		log = logger.Nop()
	}
	return &Sender{log: log}
}

func (s *Sender) Send(_ context.Context, m notify.Message) error {
	s.log.Info("notification dispatched", map[string]any{
		"notification_id": m.NotificationID,
		"company_id":      m.CompanyID,
		"customer_id":     m.CustomerID,
		"channel":         m.Channel,
		"type":            m.Type,
		"recipient":       m.Recipient,
	})
	return nil
}
