package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-grooming-manager/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `id, company_id, customer_id, pet_id, service_id, scheduled_at, status, notes, created_by, created_at, updated_at`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		a.ID,
		a.CompanyID,
		a.CustomerID,
		a.PetID,
		a.ServiceID,
		a.ScheduledAt,
		string(a.Status),
		a.Notes,
		a.CreatedBy,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return mapErr(err)
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE appointments
		SET scheduled_at = $3, status = $4, notes = $5, updated_at = $6
		WHERE id = $1 AND company_id = $2
	`, a.ID, a.CompanyID, a.ScheduledAt, string(a.Status), a.Notes, a.UpdatedAt))
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, companyID, id string) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 AND company_id = $2
	`, id, companyID)
	return scanAppointment(row)
}

func (r *AppointmentsRepo) List(ctx context.Context, companyID string, filter appointments.ListFilter) ([]appointments.Appointment, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	where := []string{"company_id = $1"}
	args := []any{companyID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.CustomerID != "" {
		add("customer_id = $%d", filter.CustomerID)
	}
	if filter.From != nil {
		add("scheduled_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("scheduled_at <= $%d", *filter.To)
	}
	if len(filter.Statuses) > 0 {
		sts := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			sts[i] = string(s)
		}
		add("status = ANY($%d)", sts)
	}
	args = append(args, limit)

	q := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE %s
		ORDER BY scheduled_at ASC, id ASC
		LIMIT $%d
	`, appointmentColumns, strings.Join(where, " AND "), len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var (
		a      appointments.Appointment
		status string
	)
	if err := row.Scan(
		&a.ID,
		&a.CompanyID,
		&a.CustomerID,
		&a.PetID,
		&a.ServiceID,
		&a.ScheduledAt,
		&status,
		&a.Notes,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return appointments.Appointment{}, mapErr(err)
	}
	a.Status = appointments.Status(status)
	return a, nil
}
