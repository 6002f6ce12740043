package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-grooming-manager/internal/domain/pets"
	"pet-grooming-manager/internal/ports/storage"
)

type petRepo struct{ s *Store }

func (r petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.s.pets[p.ID]; exists {
		return storage.ErrConflict
	}
	r.s.pets[p.ID] = p
	return nil
}

func (r petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.pets[p.ID]
	if !exists || cur.CompanyID != p.CompanyID {
		return storage.ErrNotFound
	}
	r.s.pets[p.ID] = p
	return nil
}

func (r petRepo) GetByID(ctx context.Context, companyID, id string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok || p.CompanyID != companyID {
		return pets.Pet{}, storage.ErrNotFound
	}
	return p, nil
}

func (r petRepo) ListByCustomer(ctx context.Context, companyID, customerID string) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.petsOf(companyID, customerID), nil
}

// petsOf asume el lock tomado.
func (s *Store) petsOf(companyID, customerID string) []pets.Pet {
	out := make([]pets.Pet, 0)
	for _, p := range s.pets {
		if p.CompanyID == companyID && p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
