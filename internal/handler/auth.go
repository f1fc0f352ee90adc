package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mzurek/drumtrack/internal/config"
	"github.com/mzurek/drumtrack/internal/repository"
	"github.com/mzurek/drumtrack/internal/service"
	"github.com/mzurek/drumtrack/internal/utils"
)

// AuthHandler bundles dependencies for the sign-in, status-check and
// password lifecycle endpoints.
type AuthHandler struct {
	Cfg       config.Config
	Auth      *service.AuthService
	Passwords *service.PasswordService
	Clients   *repository.ClientUserRepo
	Admins    *repository.AdminUserRepo
	Companies *repository.CompanyRepo
}

func NewAuthHandler(cfg config.Config, auth *service.AuthService, passwords *service.PasswordService,
	clients *repository.ClientUserRepo, admins *repository.AdminUserRepo, companies *repository.CompanyRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: auth, Passwords: passwords,
		Clients: clients, Admins: admins, Companies: companies}
}

// ----- DTOs -----

type loginReq struct {
	NIP       string `json:"nip"`
	Password  string `json:"password"`
	LoginMode string `json:"loginMode"`
}
type statusReq struct {
	NIP       string `json:"nip"`
	LoginMode string `json:"loginMode"`
}
type setupRequestReq struct {
	NIP string `json:"nip"`
}
type redeemReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type sessionResp struct {
	User  service.SessionUser `json:"user"`
	Token string              `json:"token"`
}

// reqTimeout bounds the database work of one request.
const reqTimeout = 5 * time.Second

// Login verifies NIP and password for the requested mode and returns
// the sanitized user plus a session token. Unknown NIP and wrong
// password produce byte-identical 401 responses.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.NIP = strings.TrimSpace(req.NIP)
	if req.NIP == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nip/password required"})
	}
	mode := normalizeMode(req.LoginMode)

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	user, err := h.Auth.SignIn(ctx, req.NIP, req.Password, mode)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.NIP, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	// Non-critical bookkeeping, outside the verification path.
	now := time.Now().UTC()
	if mode == service.ModeAdmin {
		_ = h.Admins.TouchLastLogin(ctx, user.NIP, now)
	} else {
		_ = h.Clients.TouchLastLogin(ctx, user.NIP, now)
		_ = h.Companies.TouchActivity(ctx, user.NIP, now)
	}

	return c.JSON(http.StatusOK, sessionResp{User: user, Token: access.Token})
}

// Status is the unauthenticated pre-flight lookup the login screen
// uses to branch between "set initial password" and "enter password".
func (h *AuthHandler) Status(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.NIP = strings.TrimSpace(req.NIP)
	if req.NIP == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nip required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	st := h.Auth.CheckStatus(ctx, req.NIP, normalizeMode(req.LoginMode))
	if !st.Exists {
		return c.JSON(http.StatusOK, echo.Map{"exists": false})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"exists":      true,
		"hasPassword": st.HasPassword,
		"userData":    echo.Map{"name": st.Name, "email": st.Email},
	})
}

// RequestSetup issues a password-setup link. The response is the same
// generic confirmation whether or not the NIP is registered.
func (h *AuthHandler) RequestSetup(c echo.Context) error {
	var req setupRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.NIP = strings.TrimSpace(req.NIP)
	if req.NIP == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nip required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	msg, err := h.Passwords.RequestSetup(ctx, req.NIP)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// RedeemSetup consumes a setup token, installs the password and opens
// a session.
func (h *AuthHandler) RedeemSetup(c echo.Context) error {
	var req redeemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()

	u, err := h.Passwords.RedeemSetup(ctx, strings.TrimSpace(req.Token), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation),
			errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrExpiredToken):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
	}

	user := service.SessionUser{NIP: u.NIP, Name: u.Name, Email: u.Email,
		Role: service.RoleClient, FirstLogin: u.FirstLogin}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.NIP, service.RoleClient, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, sessionResp{User: user, Token: access.Token})
}

// normalizeMode maps the loginMode field onto the two known modes,
// defaulting to client.
func normalizeMode(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), service.ModeAdmin) {
		return service.ModeAdmin
	}
	return service.ModeClient
}
