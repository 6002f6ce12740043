package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-grooming-manager/internal/domain/customers"
	"pet-grooming-manager/internal/ports/storage"
)

type customerRepo struct{ s *Store }

func (r customerRepo) Create(ctx context.Context, c customers.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("customer id required")
	}
	if _, exists := r.s.customers[c.ID]; exists {
		return storage.ErrConflict
	}
	r.s.customers[c.ID] = c
	return nil
}

func (r customerRepo) Update(ctx context.Context, c customers.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.customers[c.ID]
	if !exists || cur.CompanyID != c.CompanyID {
		return storage.ErrNotFound
	}
	r.s.customers[c.ID] = c
	return nil
}

func (r customerRepo) GetByID(ctx context.Context, companyID, id string) (customers.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.customers[id]
	if !ok || c.CompanyID != companyID {
		return customers.Customer{}, storage.ErrNotFound
	}
	return c, nil
}

func (r customerRepo) List(ctx context.Context, companyID string, filter customers.ListFilter) ([]customers.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]customers.Customer, 0)
	for _, c := range r.s.customers {
		if c.CompanyID != companyID {
			continue
		}
		if q != "" && !matchesCustomer(c, q) {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesCustomer(c customers.Customer, q string) bool {
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Email), q) ||
		strings.Contains(strings.ToLower(c.Phone), q)
}
