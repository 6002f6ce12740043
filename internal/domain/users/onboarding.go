package users

import (
	"context"
	"errors"

	"pet-grooming-manager/internal/domain/companies"
	"pet-grooming-manager/internal/ports/auth"
	"pet-grooming-manager/internal/ports/storage"
)

// OnboardingRepository guarda empresa y owner en una sola unidad de trabajo:
// o quedan los dos o ninguno.
type OnboardingRepository interface {
	CreateCompanyWithOwner(ctx context.Context, c companies.Company, owner User) error
}

type SignupInput struct {
	CompanyName  string
	CompanyEmail string
	CompanyPhone string
	OwnerName    string
	OwnerEmail   string
	Password     string
}

// Onboarding da de alta un tenant nuevo con su usuario owner.
type Onboarding struct {
	companies *companies.Service
	users     *Service
	repo      OnboardingRepository
}

func NewOnboarding(companiesSvc *companies.Service, usersSvc *Service, repo OnboardingRepository) *Onboarding {
	return &Onboarding{
		companies: companiesSvc,
		users:     usersSvc,
		repo:      repo,
	}
}

// Signup valida todo antes de escribir. Los errores de la empresa salen como
// companies.ErrInvalidInput; los del owner como ErrInvalidInput o ErrEmailTaken.
func (o *Onboarding) Signup(ctx context.Context, in SignupInput) (companies.Company, User, error) {
	c, err := o.companies.Prepare(companies.CreateInput{
		Name:  in.CompanyName,
		Email: in.CompanyEmail,
		Phone: in.CompanyPhone,
	})
	if err != nil {
		return companies.Company{}, User{}, err
	}

	owner, err := o.users.prepare(c.ID, CreateInput{
		Name:     in.OwnerName,
		Email:    in.OwnerEmail,
		Password: in.Password,
		Role:     auth.RoleOwner,
	})
	if err != nil {
		return companies.Company{}, User{}, err
	}

	if err := o.users.EnsureEmailAvailable(ctx, owner.Email); err != nil {
		return companies.Company{}, User{}, err
	}

	if err := o.repo.CreateCompanyWithOwner(ctx, c, owner); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return companies.Company{}, User{}, ErrEmailTaken
		}
		return companies.Company{}, User{}, err
	}
	return c, owner, nil
}
