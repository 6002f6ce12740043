package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-grooming-manager/internal/domain/appointments"
	"pet-grooming-manager/internal/ports/storage"
)

type appointmentRepo struct{ s *Store }

func (r appointmentRepo) Create(ctx context.Context, a appointments.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.s.appointments[a.ID]; exists {
		return storage.ErrConflict
	}
	r.s.appointments[a.ID] = a
	return nil
}

func (r appointmentRepo) Update(ctx context.Context, a appointments.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.appointments[a.ID]
	if !exists || cur.CompanyID != a.CompanyID {
		return storage.ErrNotFound
	}
	r.s.appointments[a.ID] = a
	return nil
}

func (r appointmentRepo) GetByID(ctx context.Context, companyID, id string) (appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok || a.CompanyID != companyID {
		return appointments.Appointment{}, storage.ErrNotFound
	}
	return a, nil
}

func (r appointmentRepo) List(ctx context.Context, companyID string, filter appointments.ListFilter) ([]appointments.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var statusSet map[appointments.Status]struct{}
	if len(filter.Statuses) > 0 {
		statusSet = make(map[appointments.Status]struct{}, len(filter.Statuses))
		for _, st := range filter.Statuses {
			statusSet[st] = struct{}{}
		}
	}

	out := make([]appointments.Appointment, 0)
	for _, a := range r.s.appointments {
		if a.CompanyID != companyID {
			continue
		}
		if filter.CustomerID != "" && a.CustomerID != filter.CustomerID {
			continue
		}
		if filter.From != nil && a.ScheduledAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.ScheduledAt.After(*filter.To) {
			continue
		}
		if statusSet != nil {
			if _, ok := statusSet[a.Status]; !ok {
				continue
			}
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
