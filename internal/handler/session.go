package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arkanhadi/lapor-siaga/internal/middleware"
	"github.com/arkanhadi/lapor-siaga/internal/session"
)

// SessionHandler exposes the push-delivery session maintenance endpoints.
type SessionHandler struct {
	Sessions *session.Registry
	TTL      time.Duration // staleness threshold used by Clear
}

func NewSessionHandler(s *session.Registry, ttl time.Duration) *SessionHandler {
	return &SessionHandler{Sessions: s, TTL: ttl}
}

type validateSessionReq struct {
	SessionID string `json:"session_id"`
}

// Validate compares the supplied session id with the admin's stored one.
// The device calls this on resume to learn whether its registration was
// superseded by a newer login.
func (h *SessionHandler) Validate(c echo.Context) error {
	p, _ := middleware.Principal(c)

	var req validateSessionReq
	_ = c.Bind(&req)

	valid := h.Sessions.Validate(p.ID, req.SessionID)
	resp := echo.Map{"valid": valid}
	if cur, ok := h.Sessions.Current(p.ID); ok {
		resp["current_session"] = cur.SessionID
		resp["session_start"] = cur.SessionStart
	}
	if valid {
		resp["message"] = "session is valid"
	} else {
		resp["message"] = "session is invalid or expired"
	}
	return c.JSON(http.StatusOK, resp)
}

// Clear sweeps sessions older than the configured TTL.  Maintenance is
// explicit and on demand; nothing runs on a timer.
func (h *SessionHandler) Clear(c echo.Context) error {
	cleared := h.Sessions.Sweep(h.TTL)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "old sessions cleared",
		"cleared": cleared,
	})
}
