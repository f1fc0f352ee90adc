package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mzurek/drumtrack/internal/model"
	"github.com/mzurek/drumtrack/internal/service"
)

// ListDrums handles GET /v1/admin/drums with an optional ?nip=
// filter, returning the inventory with overdue flags resolved against
// each company's return window.
func (h *AdminHandler) ListDrums(c echo.Context) error {
	nip := c.QueryParam("nip")

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	var (
		drums []model.Drum
		err   error
	)
	if nip != "" {
		drums, err = h.Drums.ListByNIP(ctx, nip)
	} else {
		drums, err = h.Drums.ListAll(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	periods, err := h.Periods.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now()
	views := make([]model.DrumView, 0, len(drums))
	for _, d := range drums {
		views = append(views, service.NewDrumView(d, periodDaysFor(periods, d.NIP), now))
	}
	return c.JSON(http.StatusOK, echo.Map{"drums": views})
}

// ReportSummary handles GET /v1/admin/reports/summary: the dashboard
// counters. Overdue counting walks the inventory in memory because
// due dates are strings from the export and return windows vary per
// company.
func (h *AdminHandler) ReportSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	companies, err := h.Companies.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	drums, err := h.Drums.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	periods, err := h.Periods.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	pending, err := h.Requests.CountByStatus(ctx, model.RequestStatusPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now()
	overdue := 0
	for _, d := range drums {
		if service.IsOverdue(service.EffectiveDueDate(d, periodDaysFor(periods, d.NIP)), now) {
			overdue++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"companies":        companies,
		"drums":            len(drums),
		"overdue_drums":    overdue,
		"pending_requests": pending,
	})
}

func periodDaysFor(periods map[string]int, nip string) int {
	if days, ok := periods[nip]; ok {
		return days
	}
	return model.DefaultReturnDays
}
