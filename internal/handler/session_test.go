package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/lapor-siaga/internal/auth"
	"github.com/arkanhadi/lapor-siaga/internal/middleware"
	"github.com/arkanhadi/lapor-siaga/internal/model"
	"github.com/arkanhadi/lapor-siaga/internal/session"
)

type sessionEnv struct {
	e        *echo.Echo
	gate     *auth.Gate
	sessions *session.Registry
}

func newSessionEnv(t *testing.T, ttl time.Duration) *sessionEnv {
	t.Helper()
	gate := auth.NewGate("test-secret", 0, auth.NewMemoryRevocations())
	sessions := session.NewRegistry()
	h := NewSessionHandler(sessions, ttl)

	e := echo.New()
	g := e.Group("", middleware.Auth(gate), middleware.RequireAdmin())
	g.POST("/admin/session/validate", h.Validate)
	g.POST("/admin/session/clear", h.Clear)
	return &sessionEnv{e: e, gate: gate, sessions: sessions}
}

func (env *sessionEnv) post(t *testing.T, path, body string) map[string]interface{} {
	t.Helper()
	token, err := env.gate.Issue(model.Principal{ID: 1, IsAdmin: true})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSessionValidate(t *testing.T) {
	env := newSessionEnv(t, time.Hour)

	// No session registered yet.
	out := env.post(t, "/admin/session/validate", `{"session_id":"session_1_1"}`)
	require.Equal(t, false, out["valid"])

	s := env.sessions.Register(1)

	out = env.post(t, "/admin/session/validate", `{"session_id":"`+s.SessionID+`"}`)
	require.Equal(t, true, out["valid"])
	require.Equal(t, s.SessionID, out["current_session"])

	// A superseded id no longer validates but the current one is reported.
	fresh := env.sessions.Register(1)
	out = env.post(t, "/admin/session/validate", `{"session_id":"`+s.SessionID+`"}`)
	if s.SessionID != fresh.SessionID {
		require.Equal(t, false, out["valid"])
	}
	require.Equal(t, fresh.SessionID, out["current_session"])
}

func TestSessionClear(t *testing.T) {
	env := newSessionEnv(t, time.Nanosecond)

	env.sessions.Register(1)
	env.sessions.Register(2)
	time.Sleep(10 * time.Millisecond) // let both sessions pass the 1ns threshold

	out := env.post(t, "/admin/session/clear", `{}`)
	require.Equal(t, float64(2), out["cleared"])

	out = env.post(t, "/admin/session/clear", `{}`)
	require.Equal(t, float64(0), out["cleared"])
}
