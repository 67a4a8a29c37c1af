package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arkanhadi/lapor-siaga/internal/middleware"
	"github.com/arkanhadi/lapor-siaga/internal/report"
	"github.com/arkanhadi/lapor-siaga/internal/repository"
)

// ReportHandler exposes report creation, status updates and the read-side
// endpoints the dashboard and mobile app consume.
type ReportHandler struct {
	Svc     *report.Service
	Reports *repository.ReportRepo
	Users   *repository.UserRepo
	Admins  *repository.AdminRepo
}

func NewReportHandler(svc *report.Service, r *repository.ReportRepo, u *repository.UserRepo, a *repository.AdminRepo) *ReportHandler {
	return &ReportHandler{Svc: svc, Reports: r, Users: u, Admins: a}
}

// Create validates and persists a new report.  The response is written as
// soon as the row exists; the live broadcast and the push fan-out run on
// their own and never delay or fail this request.
func (h *ReportHandler) Create(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var draft report.Draft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rep, err := h.Svc.Create(ctx, p, draft)
	if err != nil {
		switch {
		case report.IsValidation(err):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reporter not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create report failed"})
		}
	}
	return c.JSON(http.StatusCreated, rep)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus sets a report's status.  Admin only; the status must be one
// of the four accepted values.
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report id"})
	}

	var req updateStatusReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rep, err := h.Svc.UpdateStatus(ctx, p, id, strings.TrimSpace(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNotAdmin):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only admin can update report status"})
		case report.IsValidation(err):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "report not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
		}
	}
	return c.JSON(http.StatusOK, rep)
}

// List returns every report, newest first.
func (h *ReportHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reports, err := h.Reports.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, reports)
}

// Get returns one report with reporter details resolved.
func (h *ReportHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rep, err := h.Reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "report not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rep)
}

// Count returns overall statistics for the public dashboard: total reports,
// today's reports and the most reported locations.
func (h *ReportHandler) Count(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, err := h.Reports.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	today, err := h.Reports.CountToday(ctx, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	top, err := h.Reports.TopLocations(ctx, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total":         total,
		"today":         today,
		"top_locations": top,
	})
}

// Total returns only the overall report count.
func (h *ReportHandler) Total(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, err := h.Reports.CountAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total})
}

// UserStats returns the caller's reporting statistics along with their
// profile summary and most recent reports.
func (h *ReportHandler) UserStats(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, today, err := h.Reports.CountByReporter(ctx, p.ID, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	recent, err := h.Reports.Recent(ctx, p.ID, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	user := echo.Map{"name": "Unknown", "address": "-", "phone": "-"}
	if p.IsAdmin {
		if adm, err := h.Admins.GetByID(ctx, p.ID); err == nil {
			user["name"] = adm.Name
		}
	} else {
		if u, err := h.Users.GetByID(ctx, p.ID); err == nil {
			user = echo.Map{"name": u.Name, "address": u.Address, "phone": u.Phone}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": user,
		"reports": echo.Map{
			"total":  total,
			"today":  today,
			"recent": recent,
		},
	})
}

// ByUsername returns the reports filed by a given citizen.
func (h *ReportHandler) ByUsername(c echo.Context) error {
	username := c.Param("username")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	reports, err := h.Reports.ListByReporter(ctx, u.ID, 100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, reports)
}

// UserLookup returns a citizen's profile by username.
func (h *ReportHandler) UserLookup(c echo.Context) error {
	username := c.Param("username")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
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
		"address":    u.Address,
		"phone":      u.Phone,
		"created_at": u.CreatedAt,
	})
}
