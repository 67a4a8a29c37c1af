package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/lapor-siaga/internal/auth"
	"github.com/arkanhadi/lapor-siaga/internal/device"
	"github.com/arkanhadi/lapor-siaga/internal/middleware"
	"github.com/arkanhadi/lapor-siaga/internal/model"
	"github.com/arkanhadi/lapor-siaga/internal/push"
	"github.com/arkanhadi/lapor-siaga/internal/session"
)

// stubSender scripts provider outcomes per token.
type stubSender struct {
	invalid map[string]bool
}

func (s *stubSender) Send(_ context.Context, token string, _ push.Message) error {
	if s.invalid[token] {
		return &push.SendError{Kind: push.KindInvalidToken, Err: errors.New("unregistered")}
	}
	return nil
}

type deviceEnv struct {
	e        *echo.Echo
	gate     *auth.Gate
	sessions *session.Registry
	devices  *device.Registry
}

func newDeviceEnv(t *testing.T, sender push.Sender) *deviceEnv {
	t.Helper()
	gate := auth.NewGate("test-secret", 0, auth.NewMemoryRevocations())
	sessions := session.NewRegistry()
	devices := device.NewRegistry(sender, sessions)
	dispatcher := push.NewDispatcher(devices, sender, 4)

	h := NewDeviceHandler(devices, dispatcher)
	e := echo.New()
	g := e.Group("", middleware.Auth(gate), middleware.RequireAdmin())
	g.POST("/admin/push-token", h.Register)
	g.POST("/admin/push-token/validate", h.Validate)
	g.POST("/admin/push-token/test", h.Test)
	return &deviceEnv{e: e, gate: gate, sessions: sessions, devices: devices}
}

func (env *deviceEnv) post(t *testing.T, path, body string, p model.Principal) *httptest.ResponseRecorder {
	t.Helper()
	token, err := env.gate.Issue(p)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

var adminP = model.Principal{ID: 1, IsAdmin: true, Role: "admin"}

func TestRegisterPushToken(t *testing.T) {
	env := newDeviceEnv(t, &stubSender{})

	rec := env.post(t, "/admin/push-token", `{"push_token":"tok-1"}`, adminP)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "session_id")

	snap := env.devices.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "tok-1", snap[0].Token)
	_, ok := env.sessions.Current(1)
	require.True(t, ok)
}

func TestRegisterPushTokenRejectsInvalid(t *testing.T) {
	env := newDeviceEnv(t, &stubSender{invalid: map[string]bool{"dead": true}})

	rec := env.post(t, "/admin/push-token", `{"push_token":"dead"}`, adminP)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid push token provided")
	require.Empty(t, env.devices.Snapshot())
}

func TestRegisterPushTokenRequiresBody(t *testing.T) {
	env := newDeviceEnv(t, &stubSender{})

	rec := env.post(t, "/admin/push-token", `{}`, adminP)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "push_token is required")
}

func TestRegisterPushTokenForbiddenForUsers(t *testing.T) {
	env := newDeviceEnv(t, &stubSender{})

	rec := env.post(t, "/admin/push-token", `{"push_token":"tok-1"}`, model.Principal{ID: 10})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestValidateEndpointRemovesDeadTokens(t *testing.T) {
	sender := &stubSender{invalid: map[string]bool{}}
	env := newDeviceEnv(t, sender)

	env.post(t, "/admin/push-token", `{"push_token":"tok-1"}`, adminP)
	env.post(t, "/admin/push-token", `{"push_token":"tok-2"}`, model.Principal{ID: 2, IsAdmin: true})

	sender.invalid["tok-2"] = true
	rec := env.post(t, "/admin/push-token/validate", ``, adminP)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"valid_tokens":1`)
	require.Contains(t, rec.Body.String(), `"invalid_tokens_removed":1`)
	require.Len(t, env.devices.Snapshot(), 1)
}

func TestTestEndpoint(t *testing.T) {
	env := newDeviceEnv(t, &stubSender{})

	// No registrations yet.
	rec := env.post(t, "/admin/push-token/test", `{}`, adminP)
	require.Equal(t, http.StatusNotFound, rec.Code)

	env.post(t, "/admin/push-token", `{"push_token":"tok-1"}`, adminP)

	rec = env.post(t, "/admin/push-token/test", `{"test_message":"ping"}`, adminP)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total_tokens":1`)
	require.Contains(t, rec.Body.String(), `"successful_sends":1`)
}

func TestPushEndpointsUnavailableWithoutProvider(t *testing.T) {
	gate := auth.NewGate("test-secret", 0, auth.NewMemoryRevocations())
	h := NewDeviceHandler(nil, nil)
	e := echo.New()
	g := e.Group("", middleware.Auth(gate), middleware.RequireAdmin())
	g.POST("/admin/push-token", h.Register)
	g.POST("/admin/push-token/test", h.Test)

	token, err := gate.Issue(adminP)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/admin/push-token", strings.NewReader(`{"push_token":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
