package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/lapor-siaga/internal/auth"
	"github.com/arkanhadi/lapor-siaga/internal/model"
)

func newAuthedEcho(t *testing.T) (*echo.Echo, *auth.Gate) {
	t.Helper()
	e := echo.New()
	gate := auth.NewGate("test-secret", 0, auth.NewMemoryRevocations())

	bearer := e.Group("")
	bearer.Use(Auth(gate))
	bearer.GET("/whoami", func(c echo.Context) error {
		p, ok := Principal(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"id": p.ID, "is_admin": p.IsAdmin})
	})

	admin := e.Group("")
	admin.Use(Auth(gate), RequireAdmin())
	admin.GET("/admin-only", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	return e, gate
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthAcceptsValidToken(t *testing.T) {
	e, gate := newAuthedEcho(t)

	token, err := gate.Issue(model.Principal{ID: 42})
	require.NoError(t, err)

	rec := do(e, "/whoami", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":42`)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	e, _ := newAuthedEcho(t)

	rec := do(e, "/whoami", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	e, _ := newAuthedEcho(t)

	rec := do(e, "/whoami", "garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid token")
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	e, gate := newAuthedEcho(t)

	token, err := gate.Issue(model.Principal{ID: 42})
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, do(e, "/whoami", token).Code)

	gate.Revoke(token)

	rec := do(e, "/whoami", token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "token revoked")
}

func TestRequireAdmin(t *testing.T) {
	e, gate := newAuthedEcho(t)

	userToken, err := gate.Issue(model.Principal{ID: 10})
	require.NoError(t, err)
	adminToken, err := gate.Issue(model.Principal{ID: 1, IsAdmin: true, Role: "admin"})
	require.NoError(t, err)

	require.Equal(t, http.StatusForbidden, do(e, "/admin-only", userToken).Code)
	require.Equal(t, http.StatusNoContent, do(e, "/admin-only", adminToken).Code)
	require.Equal(t, http.StatusUnauthorized, do(e, "/admin-only", "").Code)
}
