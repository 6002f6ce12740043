package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-grooming-manager/internal/domain/notifications"
	"pet-grooming-manager/internal/ports/storage"
)

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(ctx context.Context, n notifications.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(n.ID) == "" {
		return errors.New("notification id required")
	}
	if _, exists := r.s.notifications[n.ID]; exists {
		return storage.ErrConflict
	}
	r.s.notifications[n.ID] = n
	return nil
}

func (r notificationRepo) Update(ctx context.Context, n notifications.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.notifications[n.ID]
	if !exists || cur.CompanyID != n.CompanyID {
		return storage.ErrNotFound
	}
	r.s.notifications[n.ID] = n
	return nil
}

func (r notificationRepo) ListByCompany(ctx context.Context, companyID, customerID string, limit int) ([]notifications.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]notifications.Notification, 0)
	for _, n := range r.s.notifications {
		if n.CompanyID != companyID {
			continue
		}
		if customerID != "" && n.CustomerID != customerID {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
