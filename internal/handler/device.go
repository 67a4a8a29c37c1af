package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arkanhadi/lapor-siaga/internal/device"
	"github.com/arkanhadi/lapor-siaga/internal/middleware"
	"github.com/arkanhadi/lapor-siaga/internal/push"
)

// DeviceHandler exposes the push-token lifecycle endpoints.  All of them sit
// behind the admin role middleware; both fields are nil when push delivery
// is not configured and every endpoint then answers 503.
type DeviceHandler struct {
	Devices *device.Registry
	Pusher  *push.Dispatcher
}

func NewDeviceHandler(d *device.Registry, p *push.Dispatcher) *DeviceHandler {
	return &DeviceHandler{Devices: d, Pusher: p}
}

type registerTokenReq struct {
	PushToken string `json:"push_token"`
}

type testTokenReq struct {
	TestMessage string `json:"test_message"`
}

// Register validates the supplied push token with a probe send, stores it as
// the admin's single delivery slot, and returns the fresh session minted for
// it.  Only a provider-confirmed invalid token blocks registration.
func (h *DeviceHandler) Register(c echo.Context) error {
	if h.Devices == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "push delivery is not configured"})
	}
	p, _ := middleware.Principal(c)

	var req registerTokenReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.PushToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "push_token is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	s, err := h.Devices.Register(ctx, p.ID, strings.TrimSpace(req.PushToken))
	if err != nil {
		if errors.Is(err, device.ErrInvalidToken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid push token provided"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "register token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "push token registered successfully",
		"session_id":    s.SessionID,
		"session_start": s.SessionStart,
	})
}

// Validate probes every stored token and removes the ones the provider
// confirms dead.  Hygiene only; broadcasts self-heal without it.
func (h *DeviceHandler) Validate(c echo.Context) error {
	if h.Devices == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "push delivery is not configured"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	valid, removed := h.Devices.ValidateAll(ctx)
	return c.JSON(http.StatusOK, echo.Map{
		"message":                "push token validation completed",
		"valid_tokens":           valid,
		"invalid_tokens_removed": removed,
	})
}

// Test fires an immediate test notification at every registered device and
// reports per-device timing.
func (h *DeviceHandler) Test(c echo.Context) error {
	if h.Pusher == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "push delivery is not configured"})
	}
	var req testTokenReq
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	start := time.Now()
	out := h.Pusher.TestAll(ctx, req.TestMessage)
	if out.Attempted == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no push tokens registered"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":           "push test completed",
		"total_duration_ms": time.Since(start).Milliseconds(),
		"total_tokens":      out.Attempted,
		"successful_sends":  out.Succeeded,
		"results":           out.Results,
	})
}
