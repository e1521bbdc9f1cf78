package model

import "time"

// Notification statuses.
const (
	NotificationUnread = "UNREAD"
	NotificationRead   = "READ"
)

// Notification is an admin-facing event record (new order, new comment,
// new review) persisted by the queue consumer.
type Notification struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
