package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/e-learning-backend/internal/middleware"
	"github.com/iliyamo/e-learning-backend/internal/queue"
	"github.com/iliyamo/e-learning-backend/internal/repository"
	queuepub "github.com/iliyamo/e-learning-backend/internal/service"
)

// OrderHandler serves purchase placement and the admin order list.
type OrderHandler struct {
	Orders  *repository.OrderRepo
	Courses *repository.CourseRepo
}

func NewOrderHandler(o *repository.OrderRepo, c *repository.CourseRepo) *OrderHandler {
	return &OrderHandler{Orders: o, Courses: c}
}

type createOrderReq struct {
	CourseID uint64 `json:"course_id"`
}

// Create places an order for a course. The same IsPurchased predicate the
// course guard uses rejects duplicate purchases up front; the unique key
// on (user_id, course_id) catches the race.
func (h *OrderHandler) Create(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil || req.CourseID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	purchased, err := h.Orders.IsPurchased(ctx, p.ID, req.CourseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purchase check failed"})
	}
	if purchased {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "you already purchased this course"})
	}
	if _, err := h.Courses.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Orders.Create(ctx, p.ID, req.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "you already purchased this course"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}

	go func(userID, courseID uint64) {
		_ = queuepub.PublishNotification(context.Background(), queue.NotificationEvent{
			Type:     queue.EventOrderCreated,
			Title:    "New order",
			Message:  fmt.Sprintf("user %d purchased course %d", userID, courseID),
			UserID:   userID,
			CourseID: courseID,
		})
	}(p.ID, req.CourseID)

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List returns all orders (admin).
func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Orders.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}
