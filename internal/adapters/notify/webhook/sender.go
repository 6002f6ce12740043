package webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-grooming-manager/internal/platform/httpclient"
	"pet-grooming-manager/internal/ports/notify"
)

var ErrNotConfigured = errors.New("webhook notifier not configured")

type Config struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// Sender publica cada notificación como JSON en un gateway externo
// (p.ej. el bridge de WhatsApp). Un status no-2xx se reporta como error.
type Sender struct {
	url    string
	secret string
	client *httpclient.Client
}

func NewSender(cfg Config) *Sender {
	return &Sender{
		url:    strings.TrimSpace(cfg.URL),
		secret: strings.TrimSpace(cfg.Secret),
		client: httpclient.New(cfg.Timeout),
	}
}

func (s *Sender) Send(ctx context.Context, m notify.Message) error {
	if s == nil || s.url == "" {
		return ErrNotConfigured
	}

	headers := map[string]string{}
	if s.secret != "" {
		headers["X-Webhook-Secret"] = s.secret
	}

	err := s.client.PostJSON(ctx, s.url, headers, m, nil)
	if err != nil {
		return fmt.Errorf("webhook send: %w", err)
	}
	return nil
}
