package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzurek/drumtrack/internal/utils"
)

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"nip":  c.Get(CtxNIP),
			"role": c.Get(CtxRole),
		})
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	require.NoError(t, h(c))
	return rec
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	at, err := utils.NewAccessToken("sekret", "1234567890", "CLIENT", 5)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+at.Token, JWTAuth("sekret"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1234567890")
	assert.Contains(t, rec.Body.String(), "CLIENT")
}

func TestJWTAuthRejects(t *testing.T) {
	at, err := utils.NewAccessToken("sekret", "1234567890", "CLIENT", 5)
	require.NoError(t, err)

	cases := map[string]string{
		"no header":    "",
		"not bearer":   "Basic abc",
		"garbage":      "Bearer not.a.jwt",
		"wrong secret": "Bearer " + at.Token,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := runProtected(t, header, JWTAuth("inny-sekret"))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	clientToken, err := utils.NewAccessToken("sekret", "1234567890", "CLIENT", 5)
	require.NoError(t, err)

	rec := runProtected(t, "Bearer "+clientToken.Token, JWTAuth("sekret"), RequireRole("CLIENT"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// A valid client token must not open admin routes.
	rec = runProtected(t, "Bearer "+clientToken.Token, JWTAuth("sekret"), RequireRole("ADMIN"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Role check without JWTAuth in front sees no role at all.
	rec = runProtected(t, "", RequireRole("ADMIN"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
