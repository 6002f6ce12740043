package companies

import "time"

// Company es el tenant. Todo lo demás cuelga de un CompanyID.
type Company struct {
	ID    string
	Name  string
	Email string
	Phone string

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
