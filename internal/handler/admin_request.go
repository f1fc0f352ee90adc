package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mzurek/drumtrack/internal/model"
	"github.com/mzurek/drumtrack/internal/repository"
)

// allowedTransitions encodes the only legal status moves. Requests
// walk strictly forward; there is no cancellation and no deletion.
var allowedTransitions = map[string]string{
	model.RequestStatusPending:  model.RequestStatusApproved,
	model.RequestStatusApproved: model.RequestStatusCompleted,
}

// ListRequests handles GET /v1/admin/return-requests with an optional
// ?status= filter. High-priority requests sort first.
func (h *AdminHandler) ListRequests(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	switch status {
	case "", model.RequestStatusPending, model.RequestStatusApproved, model.RequestStatusCompleted:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	reqs, err := h.Requests.List(ctx, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": reqs})
}

type statusUpdateReq struct {
	Status string `json:"status"`
}

// UpdateRequestStatus handles PATCH /v1/admin/return-requests/:id/status.
// Only the next status in the PENDING -> APPROVED -> COMPLETED chain
// is accepted; everything else is a 409.
func (h *AdminHandler) UpdateRequestStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := strings.ToUpper(strings.TrimSpace(req.Status))

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	current, err := h.Requests.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if allowedTransitions[current.Status] != target {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "illegal transition " + current.Status + " -> " + target,
		})
	}

	if err := h.Requests.UpdateStatus(ctx, id, current.Status, target); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Raced with another admin; the state moved underneath us.
			return c.JSON(http.StatusConflict, echo.Map{"error": "request status changed concurrently"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	updated, err := h.Requests.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, updated)
}
