package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	GetByID(ctx context.Context, companyID, id string) (User, error)
	// GetByEmail no filtra por company: el login todavía no conoce el tenant.
	GetByEmail(ctx context.Context, email string) (User, error)
	ListByCompany(ctx context.Context, companyID string) ([]User, error)
	Delete(ctx context.Context, companyID, id string) error
}
