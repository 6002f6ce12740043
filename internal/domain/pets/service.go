package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-grooming-manager/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("pet not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// CustomerChecker valida que el cliente exista dentro de la empresa.
// Lo implementa customers.Service; se define acá para no importar ese paquete.
type CustomerChecker interface {
	Exists(ctx context.Context, companyID, customerID string) (bool, error)
}

type Service struct {
	repo      Repository
	customers CustomerChecker
	now       func() time.Time
}

func NewService(repo Repository, customers CustomerChecker) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		now:       time.Now,
	}
}

type CreateInput struct {
	Name          string
	Species       string
	Breed         string
	Size          string
	Sex           string
	BirthDate     *time.Time
	WeightKg      *float64
	CoatType      string
	Temperament   string
	SpecialNeeds  string
	PreferredFood string
	Notes         string
	PhotoURL      string
}

func (s *Service) Create(ctx context.Context, companyID, customerID string, in CreateInput) (Pet, error) {
	companyID = strings.TrimSpace(companyID)
	customerID = strings.TrimSpace(customerID)
	if companyID == "" || customerID == "" {
		return Pet{}, fmt.Errorf("%w: company and customer are required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	species, ok := ParseSpecies(strings.TrimSpace(in.Species))
	if !ok {
		return Pet{}, fmt.Errorf("%w: species must be dog, cat or other", ErrInvalidInput)
	}
	size, ok := ParseSize(strings.TrimSpace(in.Size))
	if !ok {
		return Pet{}, fmt.Errorf("%w: invalid size", ErrInvalidInput)
	}
	sex, ok := ParseSex(strings.TrimSpace(in.Sex))
	if !ok {
		return Pet{}, fmt.Errorf("%w: invalid sex", ErrInvalidInput)
	}
	if in.WeightKg != nil && *in.WeightKg <= 0 {
		return Pet{}, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}

	if err := s.checkCustomer(ctx, companyID, customerID); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		CustomerID:    customerID,
		Name:          strings.TrimSpace(in.Name),
		Species:       species,
		Breed:         strings.TrimSpace(in.Breed),
		Size:          size,
		Sex:           sex,
		BirthDate:     in.BirthDate,
		WeightKg:      in.WeightKg,
		CoatType:      strings.TrimSpace(in.CoatType),
		Temperament:   strings.TrimSpace(in.Temperament),
		SpecialNeeds:  strings.TrimSpace(in.SpecialNeeds),
		PreferredFood: strings.TrimSpace(in.PreferredFood),
		Notes:         strings.TrimSpace(in.Notes),
		PhotoURL:      strings.TrimSpace(in.PhotoURL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, companyID, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) ListByCustomer(ctx context.Context, companyID, customerID string) ([]Pet, error) {
	if err := s.checkCustomer(ctx, companyID, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, companyID, customerID)
}

func (s *Service) checkCustomer(ctx context.Context, companyID, customerID string) error {
	if s.customers == nil {
		return nil
	}
	ok, err := s.customers.Exists(ctx, companyID, customerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCustomerNotFound
	}
	return nil
}
