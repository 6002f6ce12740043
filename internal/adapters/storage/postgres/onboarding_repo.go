package postgres

import (
	"context"
	"database/sql"

	"pet-grooming-manager/internal/domain/companies"
	"pet-grooming-manager/internal/domain/users"
)

type OnboardingRepo struct {
	db *sql.DB
}

func NewOnboardingRepo(db *sql.DB) *OnboardingRepo {
	return &OnboardingRepo{db: db}
}

// CreateCompanyWithOwner inserta empresa y owner en la misma transacción; si
// el owner choca con el índice de email la empresa no queda.
func (r *OnboardingRepo) CreateCompanyWithOwner(ctx context.Context, c companies.Company, owner users.User) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertCompany(ctx, tx, c); err != nil {
			return err
		}
		return insertUser(ctx, tx, owner)
	})
}
