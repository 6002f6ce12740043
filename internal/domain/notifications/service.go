package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-grooming-manager/internal/domain/customers"
	"pet-grooming-manager/internal/platform/logger"
	"pet-grooming-manager/internal/platform/metrics"
	"pet-grooming-manager/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNoRecipient      = errors.New("customer has no contact for channel")
)

// Directory resuelve el contacto del cliente (customers.Service).
type Directory interface {
	GetByID(ctx context.Context, companyID, id string) (customers.Customer, error)
}

type Service struct {
	repo      Repository
	directory Directory
	sender    notify.Sender
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, directory Directory, sender notify.Sender, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		directory: directory,
		sender:    sender,
		log:       log,
		now:       time.Now,
	}
}

type SendInput struct {
	CustomerID string
	Type       string
	Channel    Channel
	Message    string
}

// Send guarda la notificación como pending, la entrega al Sender y deja
// registrado sent o failed. Una falla de entrega no es error del request:
// queda en el registro con Status=failed.
func (s *Service) Send(ctx context.Context, companyID, createdBy string, in SendInput) (Notification, error) {
	companyID = strings.TrimSpace(companyID)
	customerID := strings.TrimSpace(in.CustomerID)
	msg := strings.TrimSpace(in.Message)
	if companyID == "" || customerID == "" {
		return Notification{}, fmt.Errorf("%w: customer_id is required", ErrInvalidInput)
	}
	if msg == "" {
		return Notification{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		typ = TypeCustom
	}
	channel := in.Channel
	if channel == "" {
		channel = ChannelWhatsApp
	}
	if channel != ChannelWhatsApp && channel != ChannelEmail {
		return Notification{}, fmt.Errorf("%w: channel must be whatsapp or email", ErrInvalidInput)
	}

	c, err := s.directory.GetByID(ctx, companyID, customerID)
	if err != nil {
		if errors.Is(err, customers.ErrNotFound) {
			return Notification{}, ErrCustomerNotFound
		}
		return Notification{}, err
	}
	recipient := c.Phone
	if channel == ChannelEmail {
		recipient = c.Email
	}
	if strings.TrimSpace(recipient) == "" {
		return Notification{}, fmt.Errorf("%w: %s", ErrNoRecipient, channel)
	}

	n := Notification{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		CustomerID: customerID,
		Type:       typ,
		Channel:    channel,
		Recipient:  recipient,
		Message:    msg,
		Status:     StatusPending,
		CreatedBy:  strings.TrimSpace(createdBy),
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return Notification{}, err
	}

	sendErr := s.sender.Send(ctx, notify.Message{
		NotificationID: n.ID,
		CompanyID:      n.CompanyID,
		CustomerID:     n.CustomerID,
		Channel:        string(n.Channel),
		Type:           n.Type,
		Recipient:      n.Recipient,
		Body:           n.Message,
	})
	if sendErr != nil {
		n.Status = StatusFailed
		n.Error = sendErr.Error()
		s.log.Warn("notification delivery failed", map[string]any{
			"notification_id": n.ID,
			"company_id":      n.CompanyID,
			"channel":         string(n.Channel),
			"err":             sendErr,
		})
	} else {
		sentAt := s.now()
		n.Status = StatusSent
		n.SentAt = &sentAt
	}
	metrics.ObserveNotification(string(n.Channel), string(n.Status))

	if err := s.repo.Update(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, companyID, customerID string, limit int) ([]Notification, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByCompany(ctx, companyID, strings.TrimSpace(customerID), limit)
}
