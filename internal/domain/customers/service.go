package customers

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pet-grooming-manager/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("customer not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

func (s *Service) Create(ctx context.Context, companyID string, in CreateInput) (Customer, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return Customer{}, fmt.Errorf("%w: company is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Customer{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return Customer{}, err
	}

	now := s.now()
	c := Customer{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, companyID, id string) (Customer, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(companyID), strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, companyID string, filter ListFilter) ([]Customer, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrInvalidInput
	}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, companyID, filter)
}

type UpdateInput struct {
	// Punteros para PATCH: nil = no tocar.
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

func (s *Service) Update(ctx context.Context, companyID, id string, in UpdateInput) (Customer, error) {
	c, err := s.GetByID(ctx, companyID, id)
	if err != nil {
		return Customer{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Customer{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		c.Name = name
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return Customer{}, err
		}
		c.Email = email
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	if in.Notes != nil {
		c.Notes = strings.TrimSpace(*in.Notes)
	}

	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Customer{}, ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

// Exists indica si el cliente pertenece a la empresa. Lo usan pets,
// packages y appointments antes de crear registros a su nombre.
func (s *Service) Exists(ctx context.Context, companyID, id string) (bool, error) {
	_, err := s.GetByID(ctx, companyID, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	return email, nil
}
