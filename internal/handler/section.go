package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/e-learning-backend/internal/middleware"
	"github.com/iliyamo/e-learning-backend/internal/queue"
	"github.com/iliyamo/e-learning-backend/internal/repository"
	queuepub "github.com/iliyamo/e-learning-backend/internal/service"
)

// SectionHandler serves purchase-gated section content and comments. All
// routes run behind the full guard chain (identity, purchase, membership),
// so handlers here never re-check access.
type SectionHandler struct {
	Sections *repository.SectionRepo
	Comments *repository.CommentRepo
}

func NewSectionHandler(s *repository.SectionRepo, cm *repository.CommentRepo) *SectionHandler {
	return &SectionHandler{Sections: s, Comments: cm}
}

type addCommentReq struct {
	Text     string  `json:"text"`
	ParentID *uint64 `json:"parent_id"`
}

// GetContent returns a section's full content including video fields and
// its comment thread.
func (h *SectionHandler) GetContent(c echo.Context) error {
	sectionID, err := strconv.ParseUint(c.Param("sectionId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid section id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	section, err := h.Sections.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "section not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	comments, err := h.Comments.ListBySection(ctx, sectionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"section": section, "comments": comments})
}

// AddComment posts a comment or reply on a section.
func (h *SectionHandler) AddComment(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sectionID, err := strconv.ParseUint(c.Param("sectionId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid section id"})
	}
	var req addCommentReq
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Comments.Create(ctx, sectionID, p.ID, req.ParentID, req.Text)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidParent) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid parent comment"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add comment failed"})
	}

	go func(userID, sectionID uint64) {
		_ = queuepub.PublishNotification(context.Background(), queue.NotificationEvent{
			Type:      queue.EventCommentAdded,
			Title:     "New comment",
			Message:   fmt.Sprintf("user %d commented on section %d", userID, sectionID),
			UserID:    userID,
			SectionID: sectionID,
		})
	}(p.ID, sectionID)

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
