package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/e-learning-backend/internal/model"
)

type SectionRepo struct{ DB *sql.DB }

func NewSectionRepo(db *sql.DB) *SectionRepo { return &SectionRepo{DB: db} }

const sectionColumns = "id,course_id,title,description,suggestion,video_url,video_player,video_duration,created_at"

// SectionIDs returns the ids of all sections belonging to a course. The
// section guard checks requested section ids against this set. Read-only:
// section membership never changes outside course authoring.
func (r *SectionRepo) SectionIDs(ctx context.Context, courseID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id FROM course_sections WHERE course_id=?", courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetByID fetches a section with its full, purchase-gated content.
func (r *SectionRepo) GetByID(ctx context.Context, id uint64) (model.CourseSection, error) {
	var s model.CourseSection
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+sectionColumns+" FROM course_sections WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.CourseID, &s.Title, &s.Description, &s.Suggestion, &s.VideoURL, &s.VideoPlayer, &s.VideoDuration, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

// ListByCourse returns a course's sections stripped of purchase-gated
// fields (video url, suggestion) for public catalog responses.
func (r *SectionRepo) ListByCourse(ctx context.Context, courseID uint64) ([]model.CourseSection, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,course_id,title,description,video_duration,created_at FROM course_sections WHERE course_id=? ORDER BY id",
		courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.CourseSection
	for rows.Next() {
		var s model.CourseSection
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Title, &s.Description, &s.VideoDuration, &s.CreatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}
