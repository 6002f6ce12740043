package postgres

import (
	"context"
	"database/sql"

	"pet-grooming-manager/internal/domain/companies"
)

type CompaniesRepo struct {
	db *sql.DB
}

func NewCompaniesRepo(db *sql.DB) *CompaniesRepo {
	return &CompaniesRepo{db: db}
}

func (r *CompaniesRepo) Create(ctx context.Context, c companies.Company) error {
	return insertCompany(ctx, r.db, c)
}

func insertCompany(ctx context.Context, q execer, c companies.Company) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO companies (id, name, email, phone, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, c.ID, c.Name, c.Email, c.Phone, c.Active, c.CreatedAt, c.UpdatedAt)
	return mapErr(err)
}

func (r *CompaniesRepo) Update(ctx context.Context, c companies.Company) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE companies
		SET name = $2, email = $3, phone = $4, active = $5, updated_at = $6
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.Phone, c.Active, c.UpdatedAt))
}

func (r *CompaniesRepo) GetByID(ctx context.Context, id string) (companies.Company, error) {
	var c companies.Company
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, active, created_at, updated_at
		FROM companies
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return companies.Company{}, mapErr(err)
	}
	return c, nil
}
