package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mzurek/drumtrack/internal/middleware"
	"github.com/mzurek/drumtrack/internal/model"
	"github.com/mzurek/drumtrack/internal/queue"
	"github.com/mzurek/drumtrack/internal/repository"
	"github.com/mzurek/drumtrack/internal/service"
)

// ClientHandler serves the company-facing endpoints: the company's
// own drums and its return requests. The caller's NIP always comes
// from the JWT subject, never from the request, so a client cannot
// read another company's data.
type ClientHandler struct {
	Drums     *repository.DrumRepo
	Periods   *repository.ReturnPeriodRepo
	Requests  *repository.ReturnRequestRepo
	Companies *repository.CompanyRepo
}

func NewClientHandler(drums *repository.DrumRepo, periods *repository.ReturnPeriodRepo,
	requests *repository.ReturnRequestRepo, companies *repository.CompanyRepo) *ClientHandler {
	return &ClientHandler{Drums: drums, Periods: periods, Requests: requests, Companies: companies}
}

// getNIP extracts the authenticated caller's NIP set by the JWT
// middleware.
func getNIP(c echo.Context) (string, error) {
	nip, ok := c.Get(middleware.CtxNIP).(string)
	if !ok || nip == "" {
		return "", errors.New("missing nip in context")
	}
	return nip, nil
}

// MyDrums returns the caller's drums decorated with effective due
// dates and overdue flags.
func (h *ClientHandler) MyDrums(c echo.Context) error {
	nip, err := getNIP(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	drums, err := h.Drums.ListByNIP(ctx, nip)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	days, err := h.Periods.DaysFor(ctx, nip)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now()
	views := make([]model.DrumView, 0, len(drums))
	for _, d := range drums {
		views = append(views, service.NewDrumView(d, days, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"drums": views, "return_days": days})
}

// MyRequests lists the caller's return requests, newest first.
func (h *ClientHandler) MyRequests(c echo.Context) error {
	nip, err := getNIP(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	reqs, err := h.Requests.ListByNIP(ctx, nip)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": reqs})
}

type createRequestReq struct {
	DrumCodes     []string `json:"drum_codes"`
	Street        string   `json:"street"`
	PostalCode    string   `json:"postal_code"`
	City          string   `json:"city"`
	ContactPerson string   `json:"contact_person"`
	ContactPhone  string   `json:"contact_phone"`
	PreferredDate string   `json:"preferred_date"`
	Notes         string   `json:"notes"`
}

// CreateRequest submits a pickup request. Priority is derived here,
// once, at creation time: HIGH when any selected drum is already
// overdue, NORMAL otherwise. Codes that are not in the current
// inventory snapshot count as not overdue, since the list is opaque by
// design.
func (h *ClientHandler) CreateRequest(c echo.Context) error {
	nip, err := getNIP(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	codes := make([]string, 0, len(req.DrumCodes))
	for _, code := range req.DrumCodes {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "drum_codes required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	priority, err := h.derivePriority(ctx, nip, codes)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	rr := model.ReturnRequest{
		NIP:           nip,
		DrumCodes:     codes,
		Street:        strings.TrimSpace(req.Street),
		PostalCode:    strings.TrimSpace(req.PostalCode),
		City:          strings.TrimSpace(req.City),
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		PreferredDate: strings.TrimSpace(req.PreferredDate),
		Notes:         req.Notes,
		Status:        model.RequestStatusPending,
		Priority:      priority,
	}
	if err := h.Requests.Create(ctx, &rr); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}

	companyName := ""
	if company, cErr := h.Companies.GetByNIP(ctx, nip); cErr == nil {
		companyName = company.Name
	}
	if pubErr := queue.PublishReturnRequestCreated(ctx, queue.ReturnRequestCreatedEvent{
		RequestID:   rr.ID,
		NIP:         rr.NIP,
		CompanyName: companyName,
		DrumCodes:   rr.DrumCodes,
		Priority:    rr.Priority,
		City:        rr.City,
		CreatedAt:   rr.CreatedAt.UTC().Format(time.RFC3339),
	}); pubErr != nil {
		log.Printf("return request %d: publish event failed: %v", rr.ID, pubErr)
	}

	return c.JSON(http.StatusCreated, rr)
}

// derivePriority checks the selected codes against the caller's
// current inventory.
func (h *ClientHandler) derivePriority(ctx context.Context, nip string, codes []string) (string, error) {
	drums, err := h.Drums.ListByNIP(ctx, nip)
	if err != nil {
		return "", err
	}
	days, err := h.Periods.DaysFor(ctx, nip)
	if err != nil {
		return "", err
	}
	return priorityFor(drums, days, codes, time.Now()), nil
}

// priorityFor is the creation-time priority rule: HIGH when any
// selected drum is overdue against the given return window.
func priorityFor(drums []model.Drum, days int, codes []string, now time.Time) string {
	selected := make(map[string]bool, len(codes))
	for _, code := range codes {
		selected[code] = true
	}
	for _, d := range drums {
		if selected[d.KodBebna] && service.IsOverdue(service.EffectiveDueDate(d, days), now) {
			return model.RequestPriorityHigh
		}
	}
	return model.RequestPriorityNormal
}
