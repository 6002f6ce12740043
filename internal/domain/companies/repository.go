package companies

import "context"

type Repository interface {
	Create(ctx context.Context, c Company) error
	Update(ctx context.Context, c Company) error
	GetByID(ctx context.Context, id string) (Company, error)
}
