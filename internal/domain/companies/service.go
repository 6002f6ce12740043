package companies

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
	ErrNotFound     = errors.New("company not found")
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
	Name  string
	Email string
	Phone string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Company, error) {
	c, err := s.Prepare(in)
	if err != nil {
		return Company{}, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Company{}, err
	}
	return c, nil
}

// Prepare valida la entrada y arma la Company sin persistirla. El onboarding
// la usa para guardar empresa y owner juntos.
func (s *Service) Prepare(in CreateInput) (Company, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" {
		return Company{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return Company{}, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
		}
	}

	now := s.now()
	return Company{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Company, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

type UpdateInput struct {
	// nil = no tocar
	Name  *string
	Email *string
	Phone *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Company, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Company{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Company{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		c.Name = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return Company{}, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
			}
		}
		c.Email = email
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}

	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}
