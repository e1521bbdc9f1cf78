package model

import "time"

// Course mirrors the `courses` table. Price values are stored in cents to
// avoid floating point money.
type Course struct {
	ID                  uint64    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	PriceCents          uint32    `json:"price_cents"`
	EstimatedPriceCents uint32    `json:"estimated_price_cents,omitempty"`
	DemoURL             string    `json:"demo_url,omitempty"`
	Level               string    `json:"level,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CourseSection mirrors the `course_sections` table. A section's course
// assignment is immutable once authored; the CourseID column is the
// membership fact consulted by the section guard. VideoURL and Suggestion
// are purchase-gated and stripped from public catalog responses.
type CourseSection struct {
	ID            uint64    `json:"id"`
	CourseID      uint64    `json:"course_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Suggestion    string    `json:"suggestion,omitempty"`
	VideoURL      string    `json:"video_url,omitempty"`
	VideoPlayer   string    `json:"video_player,omitempty"`
	VideoDuration uint32    `json:"video_duration,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Comment is a threaded comment on a course section. ParentID is nil for
// top-level comments; replies must reference a parent in the same section.
type Comment struct {
	ID        uint64    `json:"id"`
	SectionID uint64    `json:"section_id"`
	UserID    uint64    `json:"user_id"`
	ParentID  *uint64   `json:"parent_id,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is a rating left on a purchased course.
type Review struct {
	ID        uint64    `json:"id"`
	CourseID  uint64    `json:"course_id"`
	UserID    uint64    `json:"user_id"`
	Rating    uint8     `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
