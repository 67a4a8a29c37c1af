package handler

import (
    "context"   // provides context with cancellation for DB calls
    "errors"    // sentinel comparisons for repository errors
    "net/http"  // HTTP status codes and primitives
    "strings"   // string manipulation utilities
    "time"      // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/arkanhadi/lapor-siaga/internal/auth"       // token gate
    "github.com/arkanhadi/lapor-siaga/internal/device"     // device registry for logout cleanup
    "github.com/arkanhadi/lapor-siaga/internal/middleware" // principal/token extraction
    "github.com/arkanhadi/lapor-siaga/internal/model"      // domain types
    "github.com/arkanhadi/lapor-siaga/internal/repository" // DB repositories
    "github.com/arkanhadi/lapor-siaga/internal/utils"      // password verification
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Gate    *auth.Gate
	Users   *repository.UserRepo
	Admins  *repository.AdminRepo
	Devices *device.Registry // may be nil when push delivery is not configured
}

func NewAuthHandler(gate *auth.Gate, u *repository.UserRepo, a *repository.AdminRepo, d *device.Registry) *AuthHandler {
	return &AuthHandler{Gate: gate, Users: u, Admins: a, Devices: d}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token    string `json:"token"`
	IsAdmin  bool   `json:"is_admin"`
	Role     string `json:"role,omitempty"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	ID       uint64 `json:"id,omitempty"`
}

// Login: verify credentials against the users table first, then admins, and
// issue a bearer token.  Both lookups failing produces the same response as
// a bad password so usernames cannot be enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Citizens first; the two tables share a username namespace by
	// convention and citizens are the overwhelming majority of logins.
	u, err := h.Users.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		if !utils.VerifyPassword(u.PasswordHash, req.Password) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		token, err := h.Gate.Issue(model.Principal{ID: u.ID, IsAdmin: false})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
		}
		return c.JSON(http.StatusOK, loginResp{Token: token, IsAdmin: false, Name: u.Name})
	case errors.Is(err, repository.ErrNotFound):
		// fall through to the admins table
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	adm, err := h.Admins.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.BurnCompare(req.Password)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(adm.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	token, err := h.Gate.Issue(model.Principal{ID: adm.ID, IsAdmin: true, Role: adm.Role})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		Token:    token,
		IsAdmin:  true,
		Role:     adm.Role,
		Name:     adm.Name,
		Username: adm.Username,
		ID:       adm.ID,
	})
}

// Logout: revoke the presented token.  For admins the device registration is
// cleared as well so push delivery stops immediately; the session follows
// the registration.
func (h *AuthHandler) Logout(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	h.Gate.Revoke(middleware.Token(c))
	if p.IsAdmin && h.Devices != nil {
		h.Devices.Remove(p.ID)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
}

// Profile returns the caller's stored profile.  Admins have no address or
// phone on file, mirrored here as "-" so the mobile client renders a stable
// shape.
func (h *AuthHandler) Profile(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if p.IsAdmin {
		adm, err := h.Admins.GetByID(ctx, p.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "admin not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"id":         adm.ID,
			"username":   adm.Username,
			"name":       adm.Name,
			"role":       adm.Role,
			"is_admin":   true,
			"address":    "-",
			"phone":      "-",
			"created_at": adm.CreatedAt,
		})
	}

	u, err := h.Users.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         u.ID,
		"username":   u.Username,
		"name":       u.Name,
		"is_admin":   false,
		"address":    u.Address,
		"phone":      u.Phone,
		"created_at": u.CreatedAt,
	})
}
