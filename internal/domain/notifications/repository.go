package notifications

import "context"

type Repository interface {
	Create(ctx context.Context, n Notification) error
	Update(ctx context.Context, n Notification) error

	// ListByCompany ordena por CreatedAt descendente. customerID vacío = todos.
	ListByCompany(ctx context.Context, companyID, customerID string, limit int) ([]Notification, error)
}
