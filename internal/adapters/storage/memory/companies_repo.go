package memory

import (
	"context"
	"errors"
	"strings"

	"pet-grooming-manager/internal/domain/companies"
	"pet-grooming-manager/internal/ports/storage"
)

type companyRepo struct{ s *Store }

func (r companyRepo) Create(ctx context.Context, c companies.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("company id required")
	}
	if _, exists := r.s.companies[c.ID]; exists {
		return storage.ErrConflict
	}
	r.s.companies[c.ID] = c
	return nil
}

func (r companyRepo) Update(ctx context.Context, c companies.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.companies[c.ID]; !exists {
		return storage.ErrNotFound
	}
	r.s.companies[c.ID] = c
	return nil
}

func (r companyRepo) GetByID(ctx context.Context, id string) (companies.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.companies[id]
	if !ok {
		return companies.Company{}, storage.ErrNotFound
	}
	return c, nil
}
