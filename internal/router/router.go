package router // package router defines how HTTP routes are registered for the API

// The route table below is the single statement of each endpoint's guard
// requirements: which routes are public, which need a session, which need
// the ADMIN role and which sit behind the purchase/membership chain.
// Guards compose left to right and each one assumes its predecessors ran.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/e-learning-backend/internal/auth"
	"github.com/iliyamo/e-learning-backend/internal/handler"
	"github.com/iliyamo/e-learning-backend/internal/middleware"
	"github.com/iliyamo/e-learning-backend/internal/model"
)

// Deps carries everything route registration needs.
type Deps struct {
	Codec         *auth.Codec
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Courses       *handler.CourseHandler
	Sections      *handler.SectionHandler
	Orders        *handler.OrderHandler
	Notifications *handler.NotificationHandler

	Purchases    middleware.PurchaseChecker
	SectionIndex middleware.SectionLister

	RateLimit echo.MiddlewareFunc // credential endpoints
	Cache     echo.MiddlewareFunc // public catalog GETs
}

// Register wires all routes on the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	authn := middleware.Authenticate(d.Codec)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	anyRole := middleware.RequireRole(model.RoleUser, model.RoleAdmin)
	owned := middleware.RequireCoursePurchase(d.Purchases)
	member := middleware.RequireSectionInCourse(d.SectionIndex)

	// Credential endpoints: no session required, rate limited.
	ag := e.Group("/v1/auth", d.RateLimit)
	ag.POST("/signup", d.Auth.Signup)
	ag.POST("/activate", d.Auth.Activate)
	ag.POST("/login", d.Auth.Login)
	ag.POST("/refresh", d.Auth.Refresh)
	ag.POST("/social-signup", d.Auth.SocialSignup)
	e.POST("/v1/auth/logout", d.Auth.Logout, authn)

	// Public catalog, served through the response cache.
	e.GET("/v1/courses", d.Courses.List, d.Cache)
	e.GET("/v1/courses/:id", d.Courses.Get, d.Cache)

	// Profile.
	ug := e.Group("/v1/users", authn, anyRole)
	ug.GET("/me", d.Users.Me)
	ug.PATCH("/me", d.Users.UpdateInfo)
	ug.PATCH("/me/password", d.Users.UpdatePassword)

	// Orders.
	e.POST("/v1/orders", d.Orders.Create, authn, anyRole)

	// Purchased-content chain: identity, then ownership, then (for section
	// routes) membership.
	cg := e.Group("/v1/courses/:id", authn, anyRole, owned)
	cg.POST("/reviews", d.Courses.AddReview)
	sg := cg.Group("/sections/:sectionId", member)
	sg.GET("", d.Sections.GetContent)
	sg.POST("/comments", d.Sections.AddComment)

	// Administration.
	adm := e.Group("/v1", authn, adminOnly)
	adm.GET("/users", d.Users.List)
	adm.PATCH("/users/:id/role", d.Users.UpdateRole)
	adm.POST("/courses", d.Courses.Create)
	adm.PUT("/courses/:id", d.Courses.Update)
	adm.DELETE("/courses/:id", d.Courses.Delete)
	adm.GET("/orders", d.Orders.List)
	adm.GET("/notifications", d.Notifications.List)
	adm.PATCH("/notifications/:id", d.Notifications.MarkRead)
}
