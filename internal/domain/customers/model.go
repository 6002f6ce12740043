package customers

import "time"

// Customer es el tutor de las mascotas (quien compra paquetes).
type Customer struct {
	ID        string
	CompanyID string

	Name    string
	Email   string
	Phone   string // usado para WhatsApp
	Address string
	Notes   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
