// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried on the notifications queue.
const (
	EventOrderCreated = "order.created"
	EventCommentAdded = "comment.added"
	EventReviewAdded  = "review.added"
)

// NotificationEvent is published whenever something an administrator should
// see happens: an order is placed, a comment or review is added. The
// consumer persists it as a notification row, so the payload carries the
// display strings directly instead of making consumers re-query.
type NotificationEvent struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	UserID    uint64 `json:"user_id"`
	CourseID  uint64 `json:"course_id,omitempty"`
	SectionID uint64 `json:"section_id,omitempty"`
	CreatedAt string `json:"created_at"`
}
