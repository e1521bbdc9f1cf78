package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/e-learning-backend/internal/model"
)

type CourseRepo struct{ DB *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{DB: db} }

const courseColumns = "id,title,description,price_cents,estimated_price_cents,demo_url,level,created_at,updated_at"

// CourseInput carries the authorable fields of a course plus its sections.
type CourseInput struct {
	Title               string                `json:"title"`
	Description         string                `json:"description"`
	PriceCents          uint32                `json:"price_cents"`
	EstimatedPriceCents uint32                `json:"estimated_price_cents"`
	DemoURL             string                `json:"demo_url"`
	Level               string                `json:"level"`
	Sections            []model.CourseSection `json:"sections"`
}

// Create inserts a course and its sections in one transaction. A duplicate
// title maps to ErrAlreadyExists.
func (r *CourseRepo) Create(ctx context.Context, in CourseInput) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO courses (title, description, price_cents, estimated_price_cents, demo_url, level) VALUES (?,?,?,?,?,?)",
		in.Title, in.Description, in.PriceCents, in.EstimatedPriceCents, in.DemoURL, in.Level)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := insertSections(ctx, tx, uint64(id), in.Sections); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites a course's fields and, when sections are provided,
// replaces its section set. Section replacement re-authors the course:
// existing section ids are retired, not reassigned.
func (r *CourseRepo) Update(ctx context.Context, id uint64, in CourseInput) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE courses SET title=?, description=?, price_cents=?, estimated_price_cents=?, demo_url=?, level=? WHERE id=?",
		in.Title, in.Description, in.PriceCents, in.EstimatedPriceCents, in.DemoURL, in.Level, id)
	if err != nil {
		if isDuplicate(err) {
			return ErrAlreadyExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM courses WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	if in.Sections != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM course_sections WHERE course_id=?", id); err != nil {
			return err
		}
		if err := insertSections(ctx, tx, id, in.Sections); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertSections(ctx context.Context, tx *sql.Tx, courseID uint64, sections []model.CourseSection) error {
	for _, s := range sections {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO course_sections (course_id, title, description, suggestion, video_url, video_player, video_duration) VALUES (?,?,?,?,?,?,?)",
			courseID, s.Title, s.Description, s.Suggestion, s.VideoURL, s.VideoPlayer, s.VideoDuration)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches a single course.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (model.Course, error) {
	var c model.Course
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Title, &c.Description, &c.PriceCents, &c.EstimatedPriceCents, &c.DemoURL, &c.Level, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// List returns the full catalog ordered by creation time.
func (r *CourseRepo) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+courseColumns+" FROM courses ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.PriceCents, &c.EstimatedPriceCents, &c.DemoURL, &c.Level, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Delete removes a course. Sections cascade at the schema level.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM courses WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReview inserts a review row for a purchased course.
func (r *CourseRepo) AddReview(ctx context.Context, courseID, userID uint64, rating uint8, text string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (course_id, user_id, rating, text) VALUES (?,?,?,?)",
		courseID, userID, rating, text)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}
