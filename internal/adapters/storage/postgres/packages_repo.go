package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pet-grooming-manager/internal/domain/packages"
	"pet-grooming-manager/internal/ports/storage"
)

// PackagesRepo es el ledger en Postgres. Los descuentos y renovaciones son
// UPDATE condicionales: la fila solo cambia si sigue cumpliendo la condición.
type PackagesRepo struct {
	db *sql.DB
}

func NewPackagesRepo(db *sql.DB) *PackagesRepo {
	return &PackagesRepo{db: db}
}

const packageColumns = `
	id, company_id, customer_id,
	package_type_id, package_type_name,
	total_uses, remaining_uses, valid_until, status,
	renewed_from_id, purchase_price, acquired_at,
	created_at, updated_at`

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *PackagesRepo) Create(ctx context.Context, p packages.CustomerPackage) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return insertPackage(ctx, tx, p)
	})
}

func (r *PackagesRepo) GetByID(ctx context.Context, companyID, id string) (packages.CustomerPackage, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+packageColumns+` FROM customer_packages WHERE id = $1 AND company_id = $2
	`, id, companyID)
	p, err := scanPackage(row)
	if err != nil {
		return packages.CustomerPackage{}, err
	}
	if err := attachPackageServices(ctx, r.db, []*packages.CustomerPackage{&p}); err != nil {
		return packages.CustomerPackage{}, err
	}
	return p, nil
}

func (r *PackagesRepo) List(ctx context.Context, companyID string, filter packages.ListFilter) ([]packages.CustomerPackage, error) {
	return r.list(ctx, `
		SELECT `+packageColumns+`
		FROM customer_packages
		WHERE company_id = $1
		  AND ($2 = '' OR customer_id = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY acquired_at ASC, id ASC
	`, companyID, filter.CustomerID, string(filter.Status))
}

func (r *PackagesRepo) ListUsable(ctx context.Context, companyID string, now time.Time) ([]packages.CustomerPackage, error) {
	return r.list(ctx, `
		SELECT `+packageColumns+`
		FROM customer_packages
		WHERE company_id = $1
		  AND status = 'active'
		  AND valid_until >= $2
		  AND remaining_uses >= 1
		ORDER BY acquired_at ASC, id ASC
	`, companyID, now)
}

func (r *PackagesRepo) list(ctx context.Context, query string, args ...any) ([]packages.CustomerPackage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]packages.CustomerPackage, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*packages.CustomerPackage, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := attachPackageServices(ctx, r.db, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PackagesRepo) ConsumeUse(ctx context.Context, u packages.Usage) (packages.CustomerPackage, error) {
	var updated packages.CustomerPackage
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			UPDATE customer_packages
			SET
				remaining_uses = remaining_uses - 1,
				status = CASE WHEN remaining_uses - 1 = 0 THEN 'consumed' ELSE status END,
				updated_at = $3
			WHERE id = $1
			  AND company_id = $2
			  AND status = 'active'
			  AND valid_until >= $3
			  AND remaining_uses >= 1
			RETURNING `+packageColumns, u.PackageID, u.CompanyID, u.UsedAt)

		p, err := scanPackage(row)
		if errors.Is(err, storage.ErrNotFound) {
			return packageMissOr(ctx, tx, u.CompanyID, u.PackageID, packages.ErrNotUsable)
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO package_usages (id, company_id, package_id, pet_id, service_id, notes, used_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, u.ID, u.CompanyID, u.PackageID, u.PetID, u.ServiceID, u.Notes, u.UsedAt); err != nil {
			return mapErr(err)
		}

		if err := attachPackageServices(ctx, tx, []*packages.CustomerPackage{&p}); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return packages.CustomerPackage{}, err
	}
	return updated, nil
}

func (r *PackagesRepo) ListUsages(ctx context.Context, companyID, packageID string) ([]packages.Usage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, company_id, package_id, pet_id, service_id, notes, used_at
		FROM package_usages
		WHERE company_id = $1 AND package_id = $2
		ORDER BY used_at DESC, id DESC
	`, companyID, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]packages.Usage, 0)
	for rows.Next() {
		var u packages.Usage
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.PackageID, &u.PetID, &u.ServiceID, &u.Notes, &u.UsedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PackagesRepo) Renew(ctx context.Context, companyID, originalID string, successor packages.CustomerPackage) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE customer_packages
			SET status = 'renewed', updated_at = $3
			WHERE id = $1 AND company_id = $2 AND status <> 'renewed'
		`, originalID, companyID, successor.CreatedAt)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return packageMissOr(ctx, tx, companyID, originalID, packages.ErrAlreadyRenewed)
		}

		if err := insertPackage(ctx, tx, successor); err != nil {
			// el índice único sobre renewed_from_id cubre la carrera entre dos renovaciones
			if errors.Is(err, storage.ErrConflict) {
				return packages.ErrAlreadyRenewed
			}
			return err
		}
		return nil
	})
}

func (r *PackagesRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customer_packages
		SET status = 'expired', updated_at = $1
		WHERE status = 'active' AND valid_until < $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("expire overdue: %w", err)
	}
	return res.RowsAffected()
}

// packageMissOr distingue "no existe en la empresa" de "existe pero no cumple".
func packageMissOr(ctx context.Context, tx *sql.Tx, companyID, id string, otherwise error) error {
	var one int
	err := tx.QueryRowContext(ctx, `
		SELECT 1 FROM customer_packages WHERE id = $1 AND company_id = $2
	`, id, companyID).Scan(&one)
	if err != nil {
		return mapErr(err)
	}
	return otherwise
}

func insertPackage(ctx context.Context, tx *sql.Tx, p packages.CustomerPackage) error {
	var renewedFrom sql.NullString
	if p.RenewedFromID != nil {
		renewedFrom = sql.NullString{String: *p.RenewedFromID, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO customer_packages (`+packageColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		p.ID,
		p.CompanyID,
		p.CustomerID,
		p.PackageTypeID,
		p.PackageTypeName,
		p.TotalUses,
		p.RemainingUses,
		p.ValidUntil,
		string(p.Status),
		renewedFrom,
		p.PurchasePrice,
		p.AcquiredAt,
		p.CreatedAt,
		p.UpdatedAt,
	); err != nil {
		return mapErr(err)
	}

	for i, s := range p.Services {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO customer_package_services (package_id, service_id, position, total_uses, remaining_uses)
			VALUES ($1,$2,$3,$4,$5)
		`, p.ID, s.ServiceID, i, s.TotalUses, s.RemainingUses); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func attachPackageServices(ctx context.Context, q querier, ps []*packages.CustomerPackage) error {
	if len(ps) == 0 {
		return nil
	}
	ids := make([]string, len(ps))
	byID := make(map[string]*packages.CustomerPackage, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Services = nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT package_id, service_id, total_uses, remaining_uses
		FROM customer_package_services
		WHERE package_id = ANY($1)
		ORDER BY package_id, position ASC
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			packageID string
			s         packages.CustomerPackageService
		)
		if err := rows.Scan(&packageID, &s.ServiceID, &s.TotalUses, &s.RemainingUses); err != nil {
			return err
		}
		if p, ok := byID[packageID]; ok {
			p.Services = append(p.Services, s)
		}
	}
	return rows.Err()
}

func scanPackage(row rowScanner) (packages.CustomerPackage, error) {
	var (
		p           packages.CustomerPackage
		status      string
		renewedFrom sql.NullString
	)
	if err := row.Scan(
		&p.ID,
		&p.CompanyID,
		&p.CustomerID,
		&p.PackageTypeID,
		&p.PackageTypeName,
		&p.TotalUses,
		&p.RemainingUses,
		&p.ValidUntil,
		&status,
		&renewedFrom,
		&p.PurchasePrice,
		&p.AcquiredAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return packages.CustomerPackage{}, mapErr(err)
	}
	p.Status = packages.Status(status)
	if renewedFrom.Valid {
		id := renewedFrom.String
		p.RenewedFromID = &id
	}
	return p, nil
}
