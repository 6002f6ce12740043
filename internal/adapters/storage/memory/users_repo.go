package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-grooming-manager/internal/domain/users"
	"pet-grooming-manager/internal/ports/storage"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.s.users[u.ID]; exists {
		return storage.ErrConflict
	}
	for _, other := range r.s.users {
		if strings.EqualFold(other.Email, u.Email) {
			return storage.ErrConflict
		}
	}
	r.s.users[u.ID] = u
	return nil
}

func (r userRepo) Update(ctx context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.users[u.ID]
	if !exists || cur.CompanyID != u.CompanyID {
		return storage.ErrNotFound
	}
	for id, other := range r.s.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return storage.ErrConflict
		}
	}
	r.s.users[u.ID] = u
	return nil
}

func (r userRepo) GetByID(ctx context.Context, companyID, id string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok || u.CompanyID != companyID {
		return users.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return users.User{}, storage.ErrNotFound
}

func (r userRepo) ListByCompany(ctx context.Context, companyID string) ([]users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]users.User, 0)
	for _, u := range r.s.users {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r userRepo) Delete(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.CompanyID != companyID {
		return storage.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}
