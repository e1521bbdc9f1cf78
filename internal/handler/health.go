package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes. It must stay dependency-free: a broken
// database or cache should surface through the endpoints that use them,
// not take the whole instance out of rotation.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
