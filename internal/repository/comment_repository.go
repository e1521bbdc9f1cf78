package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/e-learning-backend/internal/model"
)

// ErrInvalidParent is returned when a reply references a parent comment
// that does not exist or belongs to a different section. Handlers should
// translate this into an HTTP 400 response.
var ErrInvalidParent = errors.New("invalid parent comment")

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment on a section. When parentID is set, the parent
// must exist and live in the same section.
func (r *CommentRepo) Create(ctx context.Context, sectionID, userID uint64, parentID *uint64, text string) (uint64, error) {
	if parentID != nil {
		var parentSection uint64
		err := r.DB.QueryRowContext(ctx,
			"SELECT section_id FROM comments WHERE id=? LIMIT 1", *parentID).Scan(&parentSection)
		if err == sql.ErrNoRows || (err == nil && parentSection != sectionID) {
			return 0, ErrInvalidParent
		}
		if err != nil {
			return 0, err
		}
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (section_id, user_id, parent_id, text) VALUES (?,?,?,?)",
		sectionID, userID, parentID, text)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// ListBySection returns a section's comments oldest first so threads read
// top-down.
func (r *CommentRepo) ListBySection(ctx context.Context, sectionID uint64) ([]model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,section_id,user_id,parent_id,text,created_at FROM comments WHERE section_id=? ORDER BY created_at",
		sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.SectionID, &c.UserID, &parent, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		if parent.Valid {
			p := uint64(parent.Int64)
			c.ParentID = &p
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
