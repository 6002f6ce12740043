package customers

import "context"

type ListFilter struct {
	// Query busca en nombre, email y teléfono (case-insensitive).
	Query string
	Limit int
}

type Repository interface {
	Create(ctx context.Context, c Customer) error
	Update(ctx context.Context, c Customer) error
	GetByID(ctx context.Context, companyID, id string) (Customer, error)
	List(ctx context.Context, companyID string, filter ListFilter) ([]Customer, error)
}
