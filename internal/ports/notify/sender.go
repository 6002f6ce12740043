package notify

import "context"

// Message es lo que el dominio entrega al canal de salida.
// El envío real (WhatsApp/email) queda fuera; los adapters solo lo encaminan.
type Message struct {
	NotificationID string `json:"notification_id"`
	CompanyID      string `json:"company_id"`
	CustomerID     string `json:"customer_id"`
	Channel        string `json:"channel"`
	Type           string `json:"type"`
	Recipient      string `json:"recipient"`
	Body           string `json:"body"`
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}
