package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"                // errors.Is for distinguishing auth failures
    "net/http"              // HTTP status codes for responses
    "strconv"               // principal id formatting for downstream key builders
    "strings"               // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/arkanhadi/lapor-siaga/internal/auth"
    "github.com/arkanhadi/lapor-siaga/internal/model"
)

// context keys set by Auth and read by handlers and other middleware.
const (
    principalKey = "principal"
    tokenKey     = "token"
)

// Auth returns an Echo middleware that validates a Bearer token through the
// auth gate and injects the resulting principal into the request context.
// The gate consults the revocation set before trusting the signature, so a
// logged-out token is rejected even when its signature still verifies.
// Handlers access the caller via middleware.Principal(c) and the raw token
// (needed by logout) via middleware.Token(c).
func Auth(gate *auth.Gate) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the token.
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(header, "Bearer ")

            p, err := gate.Verify(raw)
            if err != nil {
                if errors.Is(err, auth.ErrRevokedToken) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            // Store the principal and the raw token for handlers.  The
            // string user id feeds the rate limiter's key builder.
            c.Set(principalKey, p)
            c.Set(tokenKey, raw)
            c.Set("user_id", strconv.FormatUint(p.ID, 10))
            return next(c)
        }
    }
}

// Principal extracts the authenticated principal stored by Auth.
func Principal(c echo.Context) (model.Principal, bool) {
    p, ok := c.Get(principalKey).(model.Principal)
    return p, ok
}

// Token returns the raw bearer token stored by Auth.
func Token(c echo.Context) string {
    t, _ := c.Get(tokenKey).(string)
    return t
}
