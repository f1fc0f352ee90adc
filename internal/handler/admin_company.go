package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mzurek/drumtrack/internal/model"
	"github.com/mzurek/drumtrack/internal/repository"
)

type companyReq struct {
	NIP     string `json:"nip"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ListCompanies handles GET /v1/admin/companies.
func (h *AdminHandler) ListCompanies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	companies, err := h.Companies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"companies": companies})
}

// GetCompany handles GET /v1/admin/companies/:nip.
func (h *AdminHandler) GetCompany(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	company, err := h.Companies.GetByNIP(ctx, c.Param("nip"))
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, company)
}

// CreateCompany handles POST /v1/admin/companies: administrative
// provisioning of a client. Credentials are not created here; the
// company sets its own password through the emailed setup link.
func (h *AdminHandler) CreateCompany(c echo.Context) error {
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.NIP = strings.TrimSpace(req.NIP)
	req.Name = strings.TrimSpace(req.Name)
	if !validNIP(req.NIP) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nip must be 10 digits"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	company := model.Company{NIP: req.NIP, Name: req.Name, Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone), Address: strings.TrimSpace(req.Address)}
	if err := h.Companies.Create(ctx, company); err != nil {
		if errors.Is(err, repository.ErrNIPExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "nip already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create company failed"})
	}
	return c.JSON(http.StatusCreated, company)
}

// UpdateCompany handles PUT /v1/admin/companies/:nip.
func (h *AdminHandler) UpdateCompany(c echo.Context) error {
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	company := model.Company{NIP: c.Param("nip"), Name: name, Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone), Address: strings.TrimSpace(req.Address)}
	if err := h.Companies.Update(ctx, company); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update company failed"})
	}
	return c.JSON(http.StatusOK, company)
}

// DeleteCompany handles DELETE /v1/admin/companies/:nip. Dependent
// credential, token and period rows cascade; the company's drums stay
// in inventory with their owner reference nulled.
func (h *AdminHandler) DeleteCompany(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	if err := h.Companies.Delete(ctx, c.Param("nip")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete company failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
