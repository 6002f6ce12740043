package notifications

import "time"

// @Enum whatsapp, email
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

// @Enum pending, sent, failed
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Tipos usados por la cola de acciones; se aceptan otros valores libres.
const (
	TypeExpiryReminder = "expiry_reminder"
	TypeLowBalance     = "low_balance"
	TypeInactivity     = "inactivity"
	TypeCustom         = "custom"
)

type Notification struct {
	ID         string
	CompanyID  string
	CustomerID string

	Type      string
	Channel   Channel
	Recipient string
	Message   string

	Status Status
	Error  string

	CreatedBy string
	CreatedAt time.Time
	SentAt    *time.Time
}
