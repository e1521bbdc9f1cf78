package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/e-learning-backend/internal/middleware"
	"github.com/iliyamo/e-learning-backend/internal/queue"
	"github.com/iliyamo/e-learning-backend/internal/repository"
	queuepub "github.com/iliyamo/e-learning-backend/internal/service"
)

// CourseHandler serves catalog management (admin) and public browsing.
type CourseHandler struct {
	Courses     *repository.CourseRepo
	Sections    *repository.SectionRepo
	RDB         *redis.Client // nil disables catalog cache invalidation
	CachePrefix string
}

func NewCourseHandler(courses *repository.CourseRepo, sections *repository.SectionRepo, rdb *redis.Client, cachePrefix string) *CourseHandler {
	return &CourseHandler{Courses: courses, Sections: sections, RDB: rdb, CachePrefix: cachePrefix}
}

type addReviewReq struct {
	Rating uint8  `json:"rating"`
	Text   string `json:"text"`
}

// invalidateCatalog drops all cached catalog responses after a mutation.
// SCAN rather than KEYS: the cache shares a Redis with sessions and rate
// limiter state, and KEYS blocks the whole keyspace.
func (h *CourseHandler) invalidateCatalog(ctx context.Context) {
	if h.RDB == nil {
		return
	}
	iter := h.RDB.Scan(ctx, 0, h.CachePrefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() != nil || len(keys) == 0 {
		return
	}
	_ = h.RDB.Del(ctx, keys...).Err()
}

// Create authors a new course with its sections (admin).
func (h *CourseHandler) Create(c echo.Context) error {
	var in repository.CourseInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if in.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Courses.Create(ctx, in)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "course already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create course failed"})
	}
	h.invalidateCatalog(ctx)
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update rewrites a course (admin).
func (h *CourseHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	var in repository.CourseInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Courses.Update(ctx, id, in); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		case errors.Is(err, repository.ErrAlreadyExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "course title already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update course failed"})
		}
	}
	h.invalidateCatalog(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "course updated"})
}

// Delete removes a course (admin).
func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete course failed"})
	}
	h.invalidateCatalog(ctx)
	return c.NoContent(http.StatusNoContent)
}

// List returns the public catalog. Section lists are included but stripped
// of purchase-gated fields by the repository query.
func (h *CourseHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	courses, err := h.Courses.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"courses": courses})
}

// Get returns one course with its sanitized section list.
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	sections, err := h.Sections.ListByCourse(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"course": course, "sections": sections})
}

// AddReview records a rating on a purchased course. Routed behind the
// course-ownership guard, so reaching here implies the caller bought it.
func (h *CourseHandler) AddReview(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courseID, ok := middleware.CourseIDFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addReviewReq
	if err := c.Bind(&req); err != nil || req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1-5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Courses.AddReview(ctx, courseID, p.ID, req.Rating, req.Text)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "review already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add review failed"})
	}

	go func(userID, courseID uint64) {
		_ = queuepub.PublishNotification(context.Background(), queue.NotificationEvent{
			Type:     queue.EventReviewAdded,
			Title:    "New review",
			Message:  fmt.Sprintf("user %d reviewed course %d", userID, courseID),
			UserID:   userID,
			CourseID: courseID,
		})
	}(p.ID, courseID)

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
