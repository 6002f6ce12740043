package appointments

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, companyID, id string) (Appointment, error)

	// List ordena por ScheduledAt ascendente.
	List(ctx context.Context, companyID string, filter ListFilter) ([]Appointment, error)
}

type ListFilter struct {
	From       *time.Time
	To         *time.Time
	Statuses   []Status
	CustomerID string
	Limit      int
}
