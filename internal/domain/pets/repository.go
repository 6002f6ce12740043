package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, companyID, id string) (Pet, error)

	// ListByCustomer devuelve las mascotas ordenadas por CreatedAt ascendente.
	ListByCustomer(ctx context.Context, companyID, customerID string) ([]Pet, error)
}
