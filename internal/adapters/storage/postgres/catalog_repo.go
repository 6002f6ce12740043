package postgres

import (
	"context"
	"database/sql"

	"pet-grooming-manager/internal/domain/catalog"
)

type ServicesRepo struct {
	db *sql.DB
}

func NewServicesRepo(db *sql.DB) *ServicesRepo {
	return &ServicesRepo{db: db}
}

const serviceColumns = `id, company_id, name, description, base_price, duration_minutes, active, created_at, updated_at`

func (r *ServicesRepo) Create(ctx context.Context, s catalog.GroomingService) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO grooming_services (`+serviceColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, s.ID, s.CompanyID, s.Name, s.Description, s.BasePrice, s.DurationMinutes, s.Active, s.CreatedAt, s.UpdatedAt)
	return mapErr(err)
}

func (r *ServicesRepo) Update(ctx context.Context, s catalog.GroomingService) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE grooming_services
		SET name = $3, description = $4, base_price = $5, duration_minutes = $6, active = $7, updated_at = $8
		WHERE id = $1 AND company_id = $2
	`, s.ID, s.CompanyID, s.Name, s.Description, s.BasePrice, s.DurationMinutes, s.Active, s.UpdatedAt))
}

func (r *ServicesRepo) GetByID(ctx context.Context, companyID, id string) (catalog.GroomingService, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+serviceColumns+` FROM grooming_services WHERE id = $1 AND company_id = $2
	`, id, companyID)
	return scanService(row)
}

func (r *ServicesRepo) List(ctx context.Context, companyID string, includeInactive bool) ([]catalog.GroomingService, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+serviceColumns+`
		FROM grooming_services
		WHERE company_id = $1 AND (active OR $2)
		ORDER BY name ASC, id ASC
	`, companyID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.GroomingService, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanService(row rowScanner) (catalog.GroomingService, error) {
	var s catalog.GroomingService
	if err := row.Scan(
		&s.ID,
		&s.CompanyID,
		&s.Name,
		&s.Description,
		&s.BasePrice,
		&s.DurationMinutes,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return catalog.GroomingService{}, mapErr(err)
	}
	return s, nil
}

type PackageTypesRepo struct {
	db *sql.DB
}

func NewPackageTypesRepo(db *sql.DB) *PackageTypesRepo {
	return &PackageTypesRepo{db: db}
}

const packageTypeColumns = `id, company_id, name, description, validity_days, total_uses, price, max_pets, active, created_at, updated_at`

func (r *PackageTypesRepo) Create(ctx context.Context, pt catalog.PackageType) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO package_types (`+packageTypeColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			pt.ID,
			pt.CompanyID,
			pt.Name,
			pt.Description,
			pt.ValidityDays,
			pt.TotalUses,
			pt.Price,
			pt.MaxPets,
			pt.Active,
			pt.CreatedAt,
			pt.UpdatedAt,
		); err != nil {
			return mapErr(err)
		}
		return insertPackageTypeServices(ctx, tx, pt)
	})
}

func (r *PackageTypesRepo) Update(ctx context.Context, pt catalog.PackageType) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := mustAffect(tx.ExecContext(ctx, `
			UPDATE package_types
			SET
				name = $3,
				description = $4,
				validity_days = $5,
				total_uses = $6,
				price = $7,
				max_pets = $8,
				active = $9,
				updated_at = $10
			WHERE id = $1 AND company_id = $2
		`,
			pt.ID,
			pt.CompanyID,
			pt.Name,
			pt.Description,
			pt.ValidityDays,
			pt.TotalUses,
			pt.Price,
			pt.MaxPets,
			pt.Active,
			pt.UpdatedAt,
		)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM package_type_services WHERE package_type_id = $1`, pt.ID); err != nil {
			return err
		}
		return insertPackageTypeServices(ctx, tx, pt)
	})
}

func (r *PackageTypesRepo) GetByID(ctx context.Context, companyID, id string) (catalog.PackageType, error) {
	var pt catalog.PackageType
	err := r.db.QueryRowContext(ctx, `
		SELECT `+packageTypeColumns+` FROM package_types WHERE id = $1 AND company_id = $2
	`, id, companyID).Scan(packageTypeDest(&pt)...)
	if err != nil {
		return catalog.PackageType{}, mapErr(err)
	}

	byType, err := r.loadServices(ctx, `
		SELECT package_type_id, service_id, included_uses, unit_price
		FROM package_type_services
		WHERE package_type_id = $1
		ORDER BY position ASC
	`, pt.ID)
	if err != nil {
		return catalog.PackageType{}, err
	}
	pt.Services = byType[pt.ID]
	return pt, nil
}

func (r *PackageTypesRepo) List(ctx context.Context, companyID string, includeInactive bool) ([]catalog.PackageType, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+packageTypeColumns+`
		FROM package_types
		WHERE company_id = $1 AND (active OR $2)
		ORDER BY name ASC, id ASC
	`, companyID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.PackageType, 0)
	for rows.Next() {
		var pt catalog.PackageType
		if err := rows.Scan(packageTypeDest(&pt)...); err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byType, err := r.loadServices(ctx, `
		SELECT s.package_type_id, s.service_id, s.included_uses, s.unit_price
		FROM package_type_services s
		JOIN package_types t ON t.id = s.package_type_id
		WHERE t.company_id = $1
		ORDER BY s.package_type_id, s.position ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Services = byType[out[i].ID]
	}
	return out, nil
}

func (r *PackageTypesRepo) loadServices(ctx context.Context, query string, arg string) (map[string][]catalog.PackageTypeService, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]catalog.PackageTypeService)
	for rows.Next() {
		var (
			typeID string
			s      catalog.PackageTypeService
		)
		if err := rows.Scan(&typeID, &s.ServiceID, &s.IncludedUses, &s.UnitPrice); err != nil {
			return nil, err
		}
		out[typeID] = append(out[typeID], s)
	}
	return out, rows.Err()
}

func insertPackageTypeServices(ctx context.Context, tx *sql.Tx, pt catalog.PackageType) error {
	for i, s := range pt.Services {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO package_type_services (package_type_id, service_id, position, included_uses, unit_price)
			VALUES ($1,$2,$3,$4,$5)
		`, pt.ID, s.ServiceID, i, s.IncludedUses, s.UnitPrice); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func packageTypeDest(pt *catalog.PackageType) []any {
	return []any{
		&pt.ID,
		&pt.CompanyID,
		&pt.Name,
		&pt.Description,
		&pt.ValidityDays,
		&pt.TotalUses,
		&pt.Price,
		&pt.MaxPets,
		&pt.Active,
		&pt.CreatedAt,
		&pt.UpdatedAt,
	}
}
