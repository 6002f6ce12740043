package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-grooming-manager/internal/ports/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PackageTypeServiceInput struct {
	ServiceID    string
	IncludedUses int
	// Zero => se usa el BasePrice del servicio.
	UnitPrice decimal.Decimal
}

type CreatePackageTypeInput struct {
	Name         string
	Description  string
	ValidityDays int
	// Zero => suma de IncludedUses.
	TotalUses int
	Price     decimal.Decimal
	MaxPets   int
	Services  []PackageTypeServiceInput
}

func (s *Service) CreatePackageType(ctx context.Context, companyID string, in CreatePackageTypeInput) (PackageType, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return PackageType{}, fmt.Errorf("%w: company is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return PackageType{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.ValidityDays <= 0 {
		return PackageType{}, fmt.Errorf("%w: validity_days must be positive", ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return PackageType{}, fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if in.MaxPets < 0 {
		return PackageType{}, fmt.Errorf("%w: max_pets cannot be negative", ErrInvalidInput)
	}
	if len(in.Services) == 0 {
		return PackageType{}, fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(in.Services))
	items := make([]PackageTypeService, 0, len(in.Services))
	sumUses := 0
	for _, si := range in.Services {
		serviceID := strings.TrimSpace(si.ServiceID)
		if _, dup := seen[serviceID]; dup {
			return PackageType{}, fmt.Errorf("%w: service %s listed twice", ErrInvalidInput, serviceID)
		}
		seen[serviceID] = struct{}{}

		if si.IncludedUses <= 0 {
			return PackageType{}, fmt.Errorf("%w: included_uses must be positive", ErrInvalidInput)
		}
		gs, err := s.GetService(ctx, companyID, serviceID)
		if err != nil {
			return PackageType{}, err
		}
		if !gs.Active {
			return PackageType{}, fmt.Errorf("%w: %s", ErrServiceInactive, gs.Name)
		}

		unit := si.UnitPrice
		if unit.IsZero() {
			unit = gs.BasePrice
		}
		items = append(items, PackageTypeService{
			ServiceID:    gs.ID,
			IncludedUses: si.IncludedUses,
			UnitPrice:    unit.Round(2),
		})
		sumUses += si.IncludedUses
	}

	totalUses := in.TotalUses
	if totalUses == 0 {
		totalUses = sumUses
	}
	if totalUses <= 0 {
		return PackageType{}, fmt.Errorf("%w: total_uses must be positive", ErrInvalidInput)
	}
	maxPets := in.MaxPets
	if maxPets == 0 {
		maxPets = 1
	}

	now := s.now()
	pt := PackageType{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		ValidityDays: in.ValidityDays,
		TotalUses:    totalUses,
		Price:        in.Price.Round(2),
		MaxPets:      maxPets,
		Active:       true,
		Services:     items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.packageTypes.Create(ctx, pt); err != nil {
		return PackageType{}, err
	}
	return pt, nil
}

func (s *Service) GetPackageType(ctx context.Context, companyID, id string) (PackageType, error) {
	pt, err := s.packageTypes.GetByID(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return PackageType{}, ErrPackageTypeNotFound
		}
		return PackageType{}, err
	}
	return pt, nil
}

func (s *Service) ListPackageTypes(ctx context.Context, companyID string, includeInactive bool) ([]PackageType, error) {
	return s.packageTypes.List(ctx, strings.TrimSpace(companyID), includeInactive)
}

// RetirePackageType deja de ofrecer el tipo. Los paquetes ya vendidos no cambian.
func (s *Service) RetirePackageType(ctx context.Context, companyID, id string) (PackageType, error) {
	pt, err := s.GetPackageType(ctx, companyID, id)
	if err != nil {
		return PackageType{}, err
	}
	if !pt.Active {
		return pt, nil
	}
	pt.Active = false
	pt.UpdatedAt = s.now()
	if err := s.packageTypes.Update(ctx, pt); err != nil {
		return PackageType{}, err
	}
	return pt, nil
}
