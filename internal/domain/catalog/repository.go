package catalog

import "context"

type ServiceRepository interface {
	Create(ctx context.Context, s GroomingService) error
	Update(ctx context.Context, s GroomingService) error
	GetByID(ctx context.Context, companyID, id string) (GroomingService, error)
	List(ctx context.Context, companyID string, includeInactive bool) ([]GroomingService, error)
}

// PackageTypeRepository guarda el tipo junto con sus PackageTypeService.
type PackageTypeRepository interface {
	Create(ctx context.Context, pt PackageType) error
	Update(ctx context.Context, pt PackageType) error
	GetByID(ctx context.Context, companyID, id string) (PackageType, error)
	List(ctx context.Context, companyID string, includeInactive bool) ([]PackageType, error)
}
