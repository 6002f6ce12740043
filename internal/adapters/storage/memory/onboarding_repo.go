package memory

import (
	"context"
	"errors"
	"strings"

	"pet-grooming-manager/internal/domain/companies"
	"pet-grooming-manager/internal/domain/users"
	"pet-grooming-manager/internal/ports/storage"
)

type onboardingRepo struct{ s *Store }

// CreateCompanyWithOwner chequea todo y recién después escribe, bajo el mismo lock.
func (r onboardingRepo) CreateCompanyWithOwner(ctx context.Context, c companies.Company, owner users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(owner.ID) == "" {
		return errors.New("company and owner ids required")
	}
	if owner.CompanyID != c.ID {
		return errors.New("owner must belong to the new company")
	}
	if _, exists := r.s.companies[c.ID]; exists {
		return storage.ErrConflict
	}
	if _, exists := r.s.users[owner.ID]; exists {
		return storage.ErrConflict
	}
	for _, other := range r.s.users {
		if strings.EqualFold(other.Email, owner.Email) {
			return storage.ErrConflict
		}
	}

	r.s.companies[c.ID] = c
	r.s.users[owner.ID] = owner
	return nil
}
