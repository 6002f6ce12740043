package postgres

import (
	"context"
	"database/sql"

	"pet-grooming-manager/internal/domain/notifications"
)

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

const notificationColumns = `id, company_id, customer_id, type, channel, recipient, message, status, error, created_by, created_at, sent_at`

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		n.ID,
		n.CompanyID,
		n.CustomerID,
		n.Type,
		string(n.Channel),
		n.Recipient,
		n.Message,
		string(n.Status),
		n.Error,
		n.CreatedBy,
		n.CreatedAt,
		toNullTime(n.SentAt),
	)
	return mapErr(err)
}

func (r *NotificationsRepo) Update(ctx context.Context, n notifications.Notification) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE notifications
		SET status = $3, error = $4, sent_at = $5
		WHERE id = $1 AND company_id = $2
	`, n.ID, n.CompanyID, string(n.Status), n.Error, toNullTime(n.SentAt)))
}

func (r *NotificationsRepo) ListByCompany(ctx context.Context, companyID, customerID string, limit int) ([]notifications.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE company_id = $1 AND ($2 = '' OR customer_id = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, companyID, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		var (
			n               notifications.Notification
			channel, status string
			sentAt          sql.NullTime
		)
		if err := rows.Scan(
			&n.ID,
			&n.CompanyID,
			&n.CustomerID,
			&n.Type,
			&channel,
			&n.Recipient,
			&n.Message,
			&status,
			&n.Error,
			&n.CreatedBy,
			&n.CreatedAt,
			&sentAt,
		); err != nil {
			return nil, err
		}
		n.Channel = notifications.Channel(channel)
		n.Status = notifications.Status(status)
		n.SentAt = fromNullTime(sentAt)
		out = append(out, n)
	}
	return out, rows.Err()
}
