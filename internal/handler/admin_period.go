package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mzurek/drumtrack/internal/model"
)

// GetReturnPeriod handles GET /v1/admin/companies/:nip/return-period.
// With no override row the response carries the default window and
// custom=false, which is what the admin edit form renders.
func (h *AdminHandler) GetReturnPeriod(c echo.Context) error {
	nip := c.Param("nip")

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	p, err := h.Periods.Get(ctx, nip)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusOK, echo.Map{"nip": nip, "days": model.DefaultReturnDays, "custom": false})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"nip": p.NIP, "days": p.Days, "custom": true})
}

type periodReq struct {
	Days int `json:"days"`
}

// SetReturnPeriod handles PUT /v1/admin/companies/:nip/return-period,
// upserting the single override row for the company.
func (h *AdminHandler) SetReturnPeriod(c echo.Context) error {
	var req periodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Days < 1 || req.Days > 3650 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be between 1 and 3650"})
	}
	nip := c.Param("nip")

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	// The override references companies; verify the target exists so
	// the caller gets a 404 instead of a raw foreign-key error.
	if _, err := h.Companies.GetByNIP(ctx, nip); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Periods.Upsert(ctx, nip, req.Days); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"nip": nip, "days": req.Days, "custom": true})
}

// DeleteReturnPeriod handles DELETE /v1/admin/companies/:nip/return-period.
// Removing the override reverts the company to the default window.
func (h *AdminHandler) DeleteReturnPeriod(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	if err := h.Periods.Delete(ctx, c.Param("nip")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
