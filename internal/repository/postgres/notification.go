package postgres

import (
	"context"
	"encoding/json"
	"time"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return err
	}
	query := `INSERT INTO notifications (event_id, customer_id, title, message, attributes, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, FALSE, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, n.EventID, n.CustomerID, n.Title, n.Message, attrs, time.Now()).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, customerID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE customer_id = $1`, customerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, event_id, customer_id, title, message, attributes, is_read, created_on
	          FROM notifications WHERE customer_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.EventID, &n.CustomerID, &n.Title, &n.Message, &attrs, &n.IsRead, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, err
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, customerID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND customer_id = $2`
	_, err := r.db.ExecContext(ctx, query, id, customerID)
	return err
}
