package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin returns a middleware function that enforces that the
// authenticated principal is an administrator.  It assumes Auth has already
// stored the principal in the context; requests from regular users (or with
// no principal at all) are aborted with a 403 Forbidden response.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            p, ok := Principal(c)
            if !ok || !p.IsAdmin {
                // Valid principal without the admin role, or missing entirely
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            // Otherwise call the next handler in the chain
            return next(c)
        }
    }
}
