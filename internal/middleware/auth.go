package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/e-learning-backend/internal/auth"
)

// Context keys populated by the guard chain. Each guard writes only its own
// key and later guards read only keys written earlier, so the declared
// middleware order is a hard dependency, not a convention.
const (
	principalKey = "principal" // set by Authenticate, read by everything after it
	courseIDKey  = "course_id" // set by RequireCoursePurchase, read by RequireSectionInCourse
)

// PrincipalFrom returns the authenticated principal attached by
// Authenticate. The boolean is false when the guard has not run.
func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}

// CourseIDFrom returns the course id attached by RequireCoursePurchase.
func CourseIDFrom(c echo.Context) (uint64, bool) {
	id, ok := c.Get(courseIDKey).(uint64)
	return id, ok
}

// Authenticate returns an Echo middleware that validates a Bearer access
// token and attaches the decoded principal to the request context. Every
// failure mode (missing header, malformed header, bad signature, expiry)
// ends the request with 401; the response body does not say which.
func Authenticate(codec *auth.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			p, err := codec.VerifyAccess(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}
