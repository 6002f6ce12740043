package memory

import (
	"context"
	"time"

	"pet-grooming-manager/internal/domain/dashboard"
	"pet-grooming-manager/internal/domain/packages"
)

// DashboardRepo arma las lecturas del tablero sobre las mismas tablas del Store.
type DashboardRepo struct{ s *Store }

var _ dashboard.Repository = (*DashboardRepo)(nil)

func (r *DashboardRepo) MetricCounts(ctx context.Context, companyID string, now, monthStart, riskCutoff time.Time) (dashboard.MetricCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var c dashboard.MetricCounts
	for _, p := range r.s.packages {
		if p.CompanyID != companyID {
			continue
		}
		c.Total++
		if p.IsUsable(now) {
			c.OperationallyActive++
		}
		switch p.Status {
		case packages.StatusActive:
			c.StatusActive++
			if !p.AcquiredAt.Before(monthStart) {
				c.ActiveThisMonth++
			}
			if !p.ValidUntil.After(riskCutoff) {
				c.Risky++
			}
		case packages.StatusExpired:
			c.Expired++
		}
	}
	return c, nil
}

func (r *DashboardRepo) ListActionCandidates(ctx context.Context, companyID string, now time.Time) ([]dashboard.ActionCandidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	usable := r.s.listPackages(companyID, func(p packages.CustomerPackage) bool {
		return p.IsUsable(now)
	})

	lastUse := make(map[string]time.Time)
	for _, u := range r.s.usages {
		if u.CompanyID != companyID {
			continue
		}
		if cur, ok := lastUse[u.PackageID]; !ok || u.UsedAt.After(cur) {
			lastUse[u.PackageID] = u.UsedAt
		}
	}

	out := make([]dashboard.ActionCandidate, 0, len(usable))
	for _, p := range usable {
		c := dashboard.ActionCandidate{
			PackageID:     p.ID,
			CustomerID:    p.CustomerID,
			RemainingUses: p.RemainingUses,
			ValidUntil:    p.ValidUntil,
			AcquiredAt:    p.AcquiredAt,
		}
		if cust, ok := r.s.customers[p.CustomerID]; ok && cust.CompanyID == companyID {
			c.CustomerName = cust.Name
		}
		if ps := r.s.petsOf(companyID, p.CustomerID); len(ps) > 0 {
			c.FirstPet = &dashboard.PetSummary{
				Name:    ps[0].Name,
				Breed:   ps[0].Breed,
				Species: string(ps[0].Species),
			}
		}
		if t, ok := lastUse[p.ID]; ok {
			c.LastUsedAt = &t
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *DashboardRepo) ListRevenueRows(ctx context.Context, companyID string) ([]dashboard.RevenueRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	active := r.s.listPackages(companyID, func(p packages.CustomerPackage) bool {
		return p.Status == packages.StatusActive
	})
	out := make([]dashboard.RevenueRow, 0, len(active))
	for _, p := range active {
		row := dashboard.RevenueRow{PurchasePrice: p.PurchasePrice}
		if pt, ok := r.s.packageTypes[p.PackageTypeID]; ok && pt.CompanyID == companyID {
			row.PackageTypeName = pt.Name
		}
		out = append(out, row)
	}
	return out, nil
}
