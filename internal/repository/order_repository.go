package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/e-learning-backend/internal/model"
)

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// Create inserts an order row. The (user_id, course_id) pair is unique at
// the schema level, so a racing duplicate purchase surfaces as
// ErrAlreadyExists even when the pre-check passed.
func (r *OrderRepo) Create(ctx context.Context, userID, courseID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO orders (user_id, course_id) VALUES (?,?)", userID, courseID)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// IsPurchased reports whether an order row exists for the (user, course)
// pair. It is a pure read: the course guard calls it per request and order
// creation calls it to reject duplicates, and neither path may write.
// The orders table is the single source of truth for purchase facts; no
// denormalized purchased-ids list exists anywhere.
func (r *OrderRepo) IsPurchased(ctx context.Context, userID, courseID uint64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE user_id=? AND course_id=?)",
		userID, courseID).Scan(&exists)
	return exists, err
}

// List returns all orders, newest first (admin operation).
func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,course_id,created_at FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CourseID, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
