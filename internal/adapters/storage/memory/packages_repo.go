package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"time"

	"pet-grooming-manager/internal/domain/packages"
	"pet-grooming-manager/internal/ports/storage"
)

type packageRepo struct{ s *Store }

func (r packageRepo) Create(ctx context.Context, p packages.CustomerPackage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("package id required")
	}
	if _, exists := r.s.packages[p.ID]; exists {
		return storage.ErrConflict
	}
	r.s.packages[p.ID] = clonePackage(p)
	return nil
}

func (r packageRepo) GetByID(ctx context.Context, companyID, id string) (packages.CustomerPackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.packages[id]
	if !ok || p.CompanyID != companyID {
		return packages.CustomerPackage{}, storage.ErrNotFound
	}
	return clonePackage(p), nil
}

func (r packageRepo) List(ctx context.Context, companyID string, filter packages.ListFilter) ([]packages.CustomerPackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.listPackages(companyID, func(p packages.CustomerPackage) bool {
		if filter.CustomerID != "" && p.CustomerID != filter.CustomerID {
			return false
		}
		return filter.Status == "" || p.Status == filter.Status
	}), nil
}

func (r packageRepo) ListUsable(ctx context.Context, companyID string, now time.Time) ([]packages.CustomerPackage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.listPackages(companyID, func(p packages.CustomerPackage) bool {
		return p.IsUsable(now)
	}), nil
}

func (r packageRepo) ConsumeUse(ctx context.Context, u packages.Usage) (packages.CustomerPackage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.packages[u.PackageID]
	if !ok || p.CompanyID != u.CompanyID {
		return packages.CustomerPackage{}, storage.ErrNotFound
	}
	if !p.IsUsable(u.UsedAt) {
		return packages.CustomerPackage{}, packages.ErrNotUsable
	}

	p.RemainingUses--
	if p.RemainingUses == 0 {
		p.Status = packages.StatusConsumed
	}
	p.UpdatedAt = u.UsedAt
	r.s.packages[p.ID] = p
	r.s.usages = append(r.s.usages, u)
	return clonePackage(p), nil
}

func (r packageRepo) ListUsages(ctx context.Context, companyID, packageID string) ([]packages.Usage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]packages.Usage, 0)
	for _, u := range r.s.usages {
		if u.CompanyID == companyID && u.PackageID == packageID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UsedAt.Equal(out[j].UsedAt) {
			return out[i].UsedAt.After(out[j].UsedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r packageRepo) Renew(ctx context.Context, companyID, originalID string, successor packages.CustomerPackage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	orig, ok := r.s.packages[originalID]
	if !ok || orig.CompanyID != companyID {
		return storage.ErrNotFound
	}
	if orig.Status == packages.StatusRenewed {
		return packages.ErrAlreadyRenewed
	}
	if _, exists := r.s.packages[successor.ID]; exists {
		return storage.ErrConflict
	}

	orig.Status = packages.StatusRenewed
	orig.UpdatedAt = successor.CreatedAt
	r.s.packages[orig.ID] = orig
	r.s.packages[successor.ID] = clonePackage(successor)
	return nil
}

func (r packageRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, p := range r.s.packages {
		if p.Status != packages.StatusActive || !p.ValidUntil.Before(now) {
			continue
		}
		p.Status = packages.StatusExpired
		p.UpdatedAt = now
		r.s.packages[id] = p
		n++
	}
	return n, nil
}

// listPackages asume el lock tomado.
func (s *Store) listPackages(companyID string, keep func(packages.CustomerPackage) bool) []packages.CustomerPackage {
	out := make([]packages.CustomerPackage, 0)
	for _, p := range s.packages {
		if p.CompanyID != companyID || !keep(p) {
			continue
		}
		out = append(out, clonePackage(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AcquiredAt.Equal(out[j].AcquiredAt) {
			return out[i].AcquiredAt.Before(out[j].AcquiredAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func clonePackage(p packages.CustomerPackage) packages.CustomerPackage {
	p.Services = slices.Clone(p.Services)
	if p.RenewedFromID != nil {
		id := *p.RenewedFromID
		p.RenewedFromID = &id
	}
	return p
}
