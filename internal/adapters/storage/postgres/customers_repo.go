package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"pet-grooming-manager/internal/domain/customers"
)

type CustomersRepo struct {
	db *sql.DB
}

func NewCustomersRepo(db *sql.DB) *CustomersRepo {
	return &CustomersRepo{db: db}
}

const customerColumns = `id, company_id, name, email, phone, address, notes, created_at, updated_at`

func (r *CustomersRepo) Create(ctx context.Context, c customers.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, c.ID, c.CompanyID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.CreatedAt, c.UpdatedAt)
	return mapErr(err)
}

func (r *CustomersRepo) Update(ctx context.Context, c customers.Customer) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $3, email = $4, phone = $5, address = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND company_id = $2
	`, c.ID, c.CompanyID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.UpdatedAt))
}

func (r *CustomersRepo) GetByID(ctx context.Context, companyID, id string) (customers.Customer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+customerColumns+` FROM customers WHERE id = $1 AND company_id = $2
	`, id, companyID)
	return scanCustomer(row)
}

func (r *CustomersRepo) List(ctx context.Context, companyID string, filter customers.ListFilter) ([]customers.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1`
	args := []any{companyID}

	if s := strings.TrimSpace(filter.Query); s != "" {
		args = append(args, "%"+strings.ToLower(s)+"%")
		q += ` AND (lower(name) LIKE $2 OR lower(email) LIKE $2 OR lower(phone) LIKE $2)`
	}
	q += ` ORDER BY lower(name) ASC, id ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]customers.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCustomer(row rowScanner) (customers.Customer, error) {
	var c customers.Customer
	if err := row.Scan(
		&c.ID,
		&c.CompanyID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return customers.Customer{}, mapErr(err)
	}
	return c, nil
}
