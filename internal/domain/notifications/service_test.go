package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-grooming-manager/internal/domain/customers"
	"pet-grooming-manager/internal/ports/notify"
)

type testRepo struct {
	byID map[string]Notification
}

func (r *testRepo) Create(ctx context.Context, n Notification) error {
	r.byID[n.ID] = n
	return nil
}

func (r *testRepo) Update(ctx context.Context, n Notification) error {
	r.byID[n.ID] = n
	return nil
}

func (r *testRepo) ListByCompany(ctx context.Context, companyID, customerID string, limit int) ([]Notification, error) {
	out := make([]Notification, 0)
	for _, n := range r.byID {
		if n.CompanyID == companyID && (customerID == "" || n.CustomerID == customerID) {
			out = append(out, n)
		}
	}
	return out, nil
}

type testDirectory map[string]customers.Customer

func (d testDirectory) GetByID(ctx context.Context, companyID, id string) (customers.Customer, error) {
	c, ok := d[id]
	if !ok || c.CompanyID != companyID {
		return customers.Customer{}, customers.ErrNotFound
	}
	return c, nil
}

type testSender struct {
	sent []notify.Message
	err  error
}

func (s *testSender) Send(ctx context.Context, m notify.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func newTestService(sender *testSender) (*Service, *testRepo) {
	repo := &testRepo{byID: map[string]Notification{}}
	svc := NewService(repo, testDirectory{
		"cu-1": {ID: "cu-1", CompanyID: "c-1", Phone: "+5491100000000", Email: "ana@mail.com"},
		"cu-2": {ID: "cu-2", CompanyID: "c-1"},
	}, sender, nil)
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestSend_DeliversAndMarksSent(t *testing.T) {
	sender := &testSender{}
	svc, repo := newTestService(sender)

	n, err := svc.Send(context.Background(), "c-1", "u-1", SendInput{CustomerID: "cu-1", Type: TypeExpiryReminder, Message: "Tu paquete vence pronto"})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if n.Status != StatusSent || n.SentAt == nil || n.Channel != ChannelWhatsApp {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if len(sender.sent) != 1 || sender.sent[0].Recipient != "+5491100000000" || sender.sent[0].NotificationID != n.ID {
		t.Fatalf("unexpected delivery: %+v", sender.sent)
	}
	if repo.byID[n.ID].Status != StatusSent {
		t.Fatalf("expected persisted status sent")
	}
}

func TestSend_DeliveryFailureIsRecorded(t *testing.T) {
	sender := &testSender{err: errors.New("gateway down")}
	svc, repo := newTestService(sender)

	n, err := svc.Send(context.Background(), "c-1", "u-1", SendInput{CustomerID: "cu-1", Channel: ChannelEmail, Message: "hola"})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if n.Status != StatusFailed || n.Error != "gateway down" || n.SentAt != nil {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if repo.byID[n.ID].Status != StatusFailed {
		t.Fatalf("expected persisted status failed")
	}
}

func TestSend_Validation(t *testing.T) {
	svc, _ := newTestService(&testSender{})
	ctx := context.Background()

	if _, err := svc.Send(ctx, "c-1", "u-1", SendInput{CustomerID: "cu-1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty message, got %v", err)
	}
	if _, err := svc.Send(ctx, "c-1", "u-1", SendInput{CustomerID: "cu-1", Channel: "sms", Message: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for channel, got %v", err)
	}
	if _, err := svc.Send(ctx, "c-1", "u-1", SendInput{CustomerID: "cu-2", Message: "x"}); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	if _, err := svc.Send(ctx, "c-2", "u-1", SendInput{CustomerID: "cu-1", Message: "x"}); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}
