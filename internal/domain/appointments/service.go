package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-grooming-manager/internal/domain/catalog"
	"pet-grooming-manager/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("appointment not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPetNotOwned       = errors.New("pet does not belong to the customer")
)

// PetOwners resuelve el cliente dueño de una mascota (pets.Service).
type PetOwners interface {
	CustomerOf(ctx context.Context, companyID, petID string) (string, error)
}

// ServiceCatalog valida el servicio agendado (catalog.Service).
type ServiceCatalog interface {
	GetService(ctx context.Context, companyID, id string) (catalog.GroomingService, error)
}

type Service struct {
	repo    Repository
	pets    PetOwners
	catalog ServiceCatalog
	now     func() time.Time
}

func NewService(repo Repository, pets PetOwners, catalog ServiceCatalog) *Service {
	return &Service{
		repo:    repo,
		pets:    pets,
		catalog: catalog,
		now:     time.Now,
	}
}

type CreateInput struct {
	CustomerID  string
	PetID       string
	ServiceID   string
	ScheduledAt time.Time
	Notes       string
}

func (s *Service) Create(ctx context.Context, companyID, createdBy string, in CreateInput) (Appointment, error) {
	companyID = strings.TrimSpace(companyID)
	customerID := strings.TrimSpace(in.CustomerID)
	petID := strings.TrimSpace(in.PetID)
	serviceID := strings.TrimSpace(in.ServiceID)
	if companyID == "" || customerID == "" || petID == "" || serviceID == "" {
		return Appointment{}, fmt.Errorf("%w: customer_id, pet_id and service_id are required", ErrInvalidInput)
	}
	if in.ScheduledAt.IsZero() {
		return Appointment{}, fmt.Errorf("%w: scheduled_at is required", ErrInvalidInput)
	}

	owner, err := s.pets.CustomerOf(ctx, companyID, petID)
	if err != nil {
		return Appointment{}, err
	}
	if owner != customerID {
		return Appointment{}, ErrPetNotOwned
	}

	gs, err := s.catalog.GetService(ctx, companyID, serviceID)
	if err != nil {
		return Appointment{}, err
	}
	if !gs.Active {
		return Appointment{}, fmt.Errorf("%w: %s", catalog.ErrServiceInactive, gs.Name)
	}

	now := s.now()
	a := Appointment{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		CustomerID:  customerID,
		PetID:       petID,
		ServiceID:   gs.ID,
		ScheduledAt: in.ScheduledAt.UTC(),
		Status:      StatusScheduled,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedBy:   strings.TrimSpace(createdBy),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, companyID, id string) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, companyID string, filter ListFilter) ([]Appointment, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrInvalidInput
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: to must be after from", ErrInvalidInput)
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, companyID, filter)
}

// UpdateStatus mueve el turno por el recorrido. picked_up y canceled son finales.
func (s *Service) UpdateStatus(ctx context.Context, companyID, id string, next Status, notes *string) (Appointment, error) {
	if _, ok := ParseStatus(string(next)); !ok {
		return Appointment{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, next)
	}

	a, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return Appointment{}, err
	}
	if !a.Status.CanMoveTo(next) {
		return Appointment{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}

	a.Status = next
	if notes != nil {
		a.Notes = strings.TrimSpace(*notes)
	}
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, err
	}
	return a, nil
}

// Reschedule cambia la fecha de un turno que todavía no empezó.
func (s *Service) Reschedule(ctx context.Context, companyID, id string, at time.Time) (Appointment, error) {
	if at.IsZero() {
		return Appointment{}, fmt.Errorf("%w: scheduled_at is required", ErrInvalidInput)
	}
	a, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status != StatusScheduled && a.Status != StatusConfirmed {
		return Appointment{}, fmt.Errorf("%w: cannot reschedule a %s appointment", ErrInvalidTransition, a.Status)
	}

	a.ScheduledAt = at.UTC()
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}
