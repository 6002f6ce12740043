package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"

	"pet-grooming-manager/internal/domain/catalog"
	"pet-grooming-manager/internal/ports/storage"
)

type serviceRepo struct{ s *Store }

func (r serviceRepo) Create(ctx context.Context, svc catalog.GroomingService) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(svc.ID) == "" {
		return errors.New("service id required")
	}
	if _, exists := r.s.services[svc.ID]; exists {
		return storage.ErrConflict
	}
	r.s.services[svc.ID] = svc
	return nil
}

func (r serviceRepo) Update(ctx context.Context, svc catalog.GroomingService) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.services[svc.ID]
	if !exists || cur.CompanyID != svc.CompanyID {
		return storage.ErrNotFound
	}
	r.s.services[svc.ID] = svc
	return nil
}

func (r serviceRepo) GetByID(ctx context.Context, companyID, id string) (catalog.GroomingService, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	svc, ok := r.s.services[id]
	if !ok || svc.CompanyID != companyID {
		return catalog.GroomingService{}, storage.ErrNotFound
	}
	return svc, nil
}

func (r serviceRepo) List(ctx context.Context, companyID string, includeInactive bool) ([]catalog.GroomingService, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]catalog.GroomingService, 0)
	for _, svc := range r.s.services {
		if svc.CompanyID != companyID || (!svc.Active && !includeInactive) {
			continue
		}
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type packageTypeRepo struct{ s *Store }

func (r packageTypeRepo) Create(ctx context.Context, pt catalog.PackageType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(pt.ID) == "" {
		return errors.New("package type id required")
	}
	if _, exists := r.s.packageTypes[pt.ID]; exists {
		return storage.ErrConflict
	}
	pt.Services = slices.Clone(pt.Services)
	r.s.packageTypes[pt.ID] = pt
	return nil
}

func (r packageTypeRepo) Update(ctx context.Context, pt catalog.PackageType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, exists := r.s.packageTypes[pt.ID]
	if !exists || cur.CompanyID != pt.CompanyID {
		return storage.ErrNotFound
	}
	pt.Services = slices.Clone(pt.Services)
	r.s.packageTypes[pt.ID] = pt
	return nil
}

func (r packageTypeRepo) GetByID(ctx context.Context, companyID, id string) (catalog.PackageType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pt, ok := r.s.packageTypes[id]
	if !ok || pt.CompanyID != companyID {
		return catalog.PackageType{}, storage.ErrNotFound
	}
	pt.Services = slices.Clone(pt.Services)
	return pt, nil
}

func (r packageTypeRepo) List(ctx context.Context, companyID string, includeInactive bool) ([]catalog.PackageType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]catalog.PackageType, 0)
	for _, pt := range r.s.packageTypes {
		if pt.CompanyID != companyID || (!pt.Active && !includeInactive) {
			continue
		}
		pt.Services = slices.Clone(pt.Services)
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
