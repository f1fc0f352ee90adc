package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/mzurek/drumtrack/internal/config"
	"github.com/mzurek/drumtrack/internal/handler"
)

func newTestRouter() *echo.Echo {
	e := echo.New()
	RegisterBase(e)
	// Handlers never run during CORS pre-flight, so empty ones do.
	RegisterAuth(e, &handler.AuthHandler{}, config.RateLimitConfig{Enabled: false}, nil)
	RegisterImport(e, &handler.ImportHandler{})
	return e
}

func TestCORSPreflight(t *testing.T) {
	e := newTestRouter()

	for _, path := range []string{"/v1/auth/login", "/v1/auth/password/request", "/v1/import"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set(echo.HeaderOrigin, "https://app.example.com")
			req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)
			allowHeaders := rec.Header().Get(echo.HeaderAccessControlAllowHeaders)
			assert.Contains(t, allowHeaders, echo.HeaderAuthorization)
			assert.Contains(t, allowHeaders, "X-Import-Key")
		})
	}
}

func TestCORSActualRequestCarriesAllowOrigin(t *testing.T) {
	e := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
