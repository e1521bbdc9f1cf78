package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/e-learning-backend/internal/model"
)

type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create persists an admin notification row. Called by the queue consumer.
func (r *NotificationRepo) Create(ctx context.Context, title, message string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (title, message, status) VALUES (?,?,?)",
		title, message, model.NotificationUnread)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// List returns notifications newest first.
func (r *NotificationRepo) List(ctx context.Context) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,message,status,created_at FROM notifications ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Status, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead flips a notification to READ.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET status=? WHERE id=?", model.NotificationRead, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM notifications WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}
