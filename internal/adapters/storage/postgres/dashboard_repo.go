package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-grooming-manager/internal/domain/dashboard"
)

type DashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) *DashboardRepo {
	return &DashboardRepo{db: db}
}

func (r *DashboardRepo) MetricCounts(ctx context.Context, companyID string, now, monthStart, riskCutoff time.Time) (dashboard.MetricCounts, error) {
	var c dashboard.MetricCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'active' AND valid_until >= $2 AND remaining_uses >= 1),
			COUNT(*) FILTER (WHERE status = 'active' AND acquired_at >= $3),
			COUNT(*) FILTER (WHERE status = 'expired'),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active' AND valid_until <= $4)
		FROM customer_packages
		WHERE company_id = $1
	`, companyID, now, monthStart, riskCutoff).Scan(
		&c.StatusActive,
		&c.OperationallyActive,
		&c.ActiveThisMonth,
		&c.Expired,
		&c.Total,
		&c.Risky,
	)
	if err != nil {
		return dashboard.MetricCounts{}, err
	}
	return c, nil
}

// ListActionCandidates trae cliente, primera mascota y último uso en la misma
// consulta para no hacer una lectura por paquete.
func (r *DashboardRepo) ListActionCandidates(ctx context.Context, companyID string, now time.Time) ([]dashboard.ActionCandidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			p.id, p.customer_id, COALESCE(c.name, ''),
			p.remaining_uses, p.valid_until, p.acquired_at,
			fp.name, fp.breed, fp.species,
			lu.last_used_at
		FROM customer_packages p
		LEFT JOIN customers c ON c.id = p.customer_id AND c.company_id = p.company_id
		LEFT JOIN LATERAL (
			SELECT name, breed, species
			FROM pets
			WHERE company_id = p.company_id AND customer_id = p.customer_id
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		) fp ON TRUE
		LEFT JOIN LATERAL (
			SELECT MAX(used_at) AS last_used_at
			FROM package_usages
			WHERE company_id = p.company_id AND package_id = p.id
		) lu ON TRUE
		WHERE p.company_id = $1
		  AND p.status = 'active'
		  AND p.valid_until >= $2
		  AND p.remaining_uses >= 1
		ORDER BY p.acquired_at ASC, p.id ASC
	`, companyID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dashboard.ActionCandidate, 0)
	for rows.Next() {
		var (
			c                       dashboard.ActionCandidate
			petName, breed, species sql.NullString
			lastUsed                sql.NullTime
		)
		if err := rows.Scan(
			&c.PackageID,
			&c.CustomerID,
			&c.CustomerName,
			&c.RemainingUses,
			&c.ValidUntil,
			&c.AcquiredAt,
			&petName,
			&breed,
			&species,
			&lastUsed,
		); err != nil {
			return nil, err
		}
		if petName.Valid {
			c.FirstPet = &dashboard.PetSummary{Name: petName.String, Breed: breed.String, Species: species.String}
		}
		c.LastUsedAt = fromNullTime(lastUsed)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) ListRevenueRows(ctx context.Context, companyID string) ([]dashboard.RevenueRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(t.name, ''), p.purchase_price
		FROM customer_packages p
		LEFT JOIN package_types t ON t.id = p.package_type_id AND t.company_id = p.company_id
		WHERE p.company_id = $1 AND p.status = 'active'
		ORDER BY p.acquired_at ASC, p.id ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dashboard.RevenueRow, 0)
	for rows.Next() {
		var row dashboard.RevenueRow
		if err := rows.Scan(&row.PackageTypeName, &row.PurchasePrice); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
