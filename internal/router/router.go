// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/mzurek/drumtrack/internal/config"
	"github.com/mzurek/drumtrack/internal/handler"
	"github.com/mzurek/drumtrack/internal/middleware"
	"github.com/mzurek/drumtrack/internal/service"
)

// RegisterBase installs the global middleware stack and the health
// check. Every endpoint answers CORS pre-flight permissively: the
// frontend is served from a different origin and the import cron
// calls from wherever it runs.
func RegisterBase(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "X-Import-Key"},
	}))

	e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts the anonymous authentication and password
// lifecycle endpoints under /v1/auth, behind the Redis token bucket.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth")
	g.Use(middleware.NewTokenBucket(rlCfg, rdb))
	g.POST("/login", a.Login)
	g.POST("/status", a.Status)
	g.POST("/password/request", a.RequestSetup)
	g.POST("/password/redeem", a.RedeemSetup)
}

// RegisterImport mounts the CSV bulk-import entry point. The handler
// authenticates the caller with the shared import key itself, so no
// session middleware applies here.
func RegisterImport(e *echo.Echo, ih *handler.ImportHandler) {
	e.POST("/v1/import", ih.Import)
}

// RegisterClient mounts the company-facing endpoints under
// /v1/client, restricted to CLIENT sessions.
func RegisterClient(e *echo.Echo, ch *handler.ClientHandler, jwtSecret string) {
	g := e.Group("/v1/client")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(service.RoleClient))
	g.GET("/drums", ch.MyDrums)
	g.GET("/return-requests", ch.MyRequests)
	g.POST("/return-requests", ch.CreateRequest)
}

// RegisterAdmin mounts the administrative surface under /v1/admin,
// restricted to ADMIN sessions. The report summary additionally sits
// behind the short-lived response cache.
func RegisterAdmin(e *echo.Echo, ah *handler.AdminHandler, jwtSecret string,
	cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(service.RoleAdmin))

	g.GET("/companies", ah.ListCompanies)
	g.POST("/companies", ah.CreateCompany)
	g.GET("/companies/:nip", ah.GetCompany)
	g.PUT("/companies/:nip", ah.UpdateCompany)
	g.DELETE("/companies/:nip", ah.DeleteCompany)

	g.GET("/companies/:nip/return-period", ah.GetReturnPeriod)
	g.PUT("/companies/:nip/return-period", ah.SetReturnPeriod)
	g.DELETE("/companies/:nip/return-period", ah.DeleteReturnPeriod)

	g.GET("/drums", ah.ListDrums)

	g.GET("/return-requests", ah.ListRequests)
	g.PATCH("/return-requests/:id/status", ah.UpdateRequestStatus)

	g.GET("/reports/summary", ah.ReportSummary, middleware.CacheJSON(cacheCfg, rdb))
}
