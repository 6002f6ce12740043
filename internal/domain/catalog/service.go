package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-grooming-manager/internal/ports/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrServiceNotFound     = errors.New("service not found")
	ErrPackageTypeNotFound = errors.New("package type not found")
	ErrServiceInactive     = errors.New("service is retired")
)

type Service struct {
	services     ServiceRepository
	packageTypes PackageTypeRepository
	now          func() time.Time
}

func NewService(services ServiceRepository, packageTypes PackageTypeRepository) *Service {
	return &Service{
		services:     services,
		packageTypes: packageTypes,
		now:          time.Now,
	}
}

type CreateServiceInput struct {
	Name            string
	Description     string
	BasePrice       decimal.Decimal
	DurationMinutes int
}

func (s *Service) CreateService(ctx context.Context, companyID string, in CreateServiceInput) (GroomingService, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return GroomingService{}, fmt.Errorf("%w: company is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return GroomingService{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.BasePrice.IsNegative() {
		return GroomingService{}, fmt.Errorf("%w: base_price cannot be negative", ErrInvalidInput)
	}
	if in.DurationMinutes <= 0 {
		return GroomingService{}, fmt.Errorf("%w: duration_minutes must be positive", ErrInvalidInput)
	}

	now := s.now()
	gs := GroomingService{
		ID:              uuid.NewString(),
		CompanyID:       companyID,
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		BasePrice:       in.BasePrice.Round(2),
		DurationMinutes: in.DurationMinutes,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.services.Create(ctx, gs); err != nil {
		return GroomingService{}, err
	}
	return gs, nil
}

func (s *Service) GetService(ctx context.Context, companyID, id string) (GroomingService, error) {
	gs, err := s.services.GetByID(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return GroomingService{}, ErrServiceNotFound
		}
		return GroomingService{}, err
	}
	return gs, nil
}

func (s *Service) ListServices(ctx context.Context, companyID string, includeInactive bool) ([]GroomingService, error) {
	return s.services.List(ctx, strings.TrimSpace(companyID), includeInactive)
}

type UpdateServiceInput struct {
	Name            *string
	Description     *string
	BasePrice       *decimal.Decimal
	DurationMinutes *int
}

func (s *Service) UpdateService(ctx context.Context, companyID, id string, in UpdateServiceInput) (GroomingService, error) {
	gs, err := s.GetService(ctx, companyID, id)
	if err != nil {
		return GroomingService{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return GroomingService{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		gs.Name = name
	}
	if in.Description != nil {
		gs.Description = strings.TrimSpace(*in.Description)
	}
	if in.BasePrice != nil {
		if in.BasePrice.IsNegative() {
			return GroomingService{}, fmt.Errorf("%w: base_price cannot be negative", ErrInvalidInput)
		}
		gs.BasePrice = in.BasePrice.Round(2)
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes <= 0 {
			return GroomingService{}, fmt.Errorf("%w: duration_minutes must be positive", ErrInvalidInput)
		}
		gs.DurationMinutes = *in.DurationMinutes
	}

	gs.UpdatedAt = s.now()
	if err := s.services.Update(ctx, gs); err != nil {
		return GroomingService{}, err
	}
	return gs, nil
}

// RetireService marca el servicio como inactivo. Es idempotente.
func (s *Service) RetireService(ctx context.Context, companyID, id string) (GroomingService, error) {
	gs, err := s.GetService(ctx, companyID, id)
	if err != nil {
		return GroomingService{}, err
	}
	if !gs.Active {
		return gs, nil
	}
	gs.Active = false
	gs.UpdatedAt = s.now()
	if err := s.services.Update(ctx, gs); err != nil {
		return GroomingService{}, err
	}
	return gs, nil
}
