package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/arkanhadi/lapor-siaga/internal/auth"       // token gate backing the bearer middleware
	"github.com/arkanhadi/lapor-siaga/internal/handler"    // import the handlers that implement business logic
	"github.com/arkanhadi/lapor-siaga/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// Deps bundles everything the route table needs.  Handlers are constructed
// in main and passed in so the router stays a pure wiring layer.
type Deps struct {
	Gate      *auth.Gate
	Auth      *handler.AuthHandler
	Reports   *handler.ReportHandler
	Devices   *handler.DeviceHandler
	Sessions  *handler.SessionHandler
	Events    *handler.EventsHandler
	RateLimit echo.MiddlewareFunc // applied to /login; nil disables it
	Cache     echo.MiddlewareFunc // applied to public stats reads; nil disables it
}

// Register wires every route onto the provided Echo instance.  Routes fall
// into three tiers: public, bearer-authenticated, and admin-only.
func Register(e *echo.Echo, d Deps) {
	// Health check for load balancers and monitoring.  No auth, no body.
	e.GET("/healthz", handler.Health)

	// Login is public but rate limited so credential stuffing burns out
	// quickly instead of hammering bcrypt.
	login := []echo.MiddlewareFunc{}
	if d.RateLimit != nil {
		login = append(login, d.RateLimit)
	}
	e.POST("/login", d.Auth.Login, login...)

	// Public dashboard reads.  The count endpoints are aggregate queries, so
	// responses are cached briefly when Redis is available.
	cached := []echo.MiddlewareFunc{}
	if d.Cache != nil {
		cached = append(cached, d.Cache)
	}
	e.GET("/reports/count", d.Reports.Count, cached...)
	e.GET("/reports/total", d.Reports.Total, cached...)

	// Live event stream.  The upgrade happens inside the handler; anyone may
	// subscribe, matching the public dashboard.
	e.GET("/events", d.Events.Attach)

	// Everything below requires a valid, unrevoked bearer token.
	bearer := e.Group("")
	bearer.Use(middleware.Auth(d.Gate))

	bearer.POST("/logout", d.Auth.Logout)
	bearer.GET("/profile", d.Auth.Profile)

	bearer.POST("/report", d.Reports.Create)
	bearer.GET("/reports/all", d.Reports.List)
	bearer.GET("/reports/user-stats", d.Reports.UserStats)
	bearer.GET("/reports/by-username/:username", d.Reports.ByUsername)
	bearer.GET("/reports/:id", d.Reports.Get)
	bearer.GET("/user/:username", d.Reports.UserLookup)

	// Admin-only operations: status updates, push token lifecycle and
	// session management.
	admin := e.Group("")
	admin.Use(middleware.Auth(d.Gate), middleware.RequireAdmin())

	admin.PUT("/reports/:id/status", d.Reports.UpdateStatus)

	admin.POST("/admin/push-token", d.Devices.Register)
	admin.POST("/admin/push-token/validate", d.Devices.Validate)
	admin.POST("/admin/push-token/test", d.Devices.Test)

	admin.POST("/admin/session/validate", d.Sessions.Validate)
	admin.POST("/admin/session/clear", d.Sessions.Clear)
}
