package model

import "time"

// Order mirrors the `orders` table: one row per completed purchase of a
// course by a user. Rows are never mutated; the (user_id, course_id) pair
// is unique and is the authoritative "has purchased" fact.
type Order struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	CourseID  uint64    `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}
