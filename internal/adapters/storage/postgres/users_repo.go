package postgres

import (
	"context"
	"database/sql"

	"pet-grooming-manager/internal/domain/users"
	"pet-grooming-manager/internal/ports/auth"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `id, company_id, name, email, password_hash, role, active, created_at, updated_at, last_login_at`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	return insertUser(ctx, r.db, u)
}

func insertUser(ctx context.Context, q execer, u users.User) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		u.ID,
		u.CompanyID,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Active,
		u.CreatedAt,
		u.UpdatedAt,
		toNullTime(u.LastLoginAt),
	)
	return mapErr(err)
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE users
		SET
			name = $3,
			email = $4,
			password_hash = $5,
			role = $6,
			active = $7,
			updated_at = $8,
			last_login_at = $9
		WHERE id = $1 AND company_id = $2
	`,
		u.ID,
		u.CompanyID,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Active,
		u.UpdatedAt,
		toNullTime(u.LastLoginAt),
	))
}

func (r *UsersRepo) GetByID(ctx context.Context, companyID, id string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1 AND company_id = $2
	`, id, companyID)
	return scanUser(row)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)
	`, email)
	return scanUser(row)
}

func (r *UsersRepo) ListByCompany(ctx context.Context, companyID string) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE company_id = $1 ORDER BY created_at ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) Delete(ctx context.Context, companyID, id string) error {
	return mustAffect(r.db.ExecContext(ctx, `
		DELETE FROM users WHERE id = $1 AND company_id = $2
	`, id, companyID))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (users.User, error) {
	var (
		u         users.User
		role      string
		lastLogin sql.NullTime
	)
	if err := row.Scan(
		&u.ID,
		&u.CompanyID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLogin,
	); err != nil {
		return users.User{}, mapErr(err)
	}
	u.Role = auth.Role(role)
	u.LastLoginAt = fromNullTime(lastLogin)
	return u, nil
}
