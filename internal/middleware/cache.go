package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mzurek/drumtrack/internal/config"
)

// bodyCapture tees the response body so a successful JSON reply can
// be stored after it has been sent to the client.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheJSON caches successful GET responses in Redis for cfg.TTL,
// keyed by route and query string. It is wrapped only around the
// admin report endpoint: the dashboard polls counters that change far
// slower than the poll interval. Non-GET requests, errors and a nil
// Redis client all bypass the cache.
func CacheJSON(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
			key := fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])

			ctx := c.Request().Context()
			if cached, err := rdb.Get(ctx, key).Result(); err == nil {
				return c.JSONBlob(http.StatusOK, []byte(cached))
			}

			rec := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				return err
			}
			if rec.status == http.StatusOK && rec.buf.Len() > 0 {
				// Detached context: the response is already out the door.
				_ = rdb.Set(context.WithoutCancel(ctx), key, rec.buf.String(), cfg.TTL).Err()
			}
			return nil
		}
	}
}
