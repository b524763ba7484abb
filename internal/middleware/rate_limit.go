package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Limiter reports whether another request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitMiddleware limits requests per client IP. Limiter errors let the
// request through.
func RateLimitMiddleware(limiter Limiter, log *slog.Logger, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ip := c.RealIP()

			allowed, err := limiter.Allow(ctx, ip)
			if err != nil {
				log.WarnContext(ctx, "rate limiter unavailable", slog.String("ip", ip), slog.Any("error", err))
				return next(c)
			}
			if !allowed {
				log.InfoContext(ctx, "rate limit exceeded", slog.String("ip", ip), slog.String("path", c.Path()))
				return echo.NewHTTPError(http.StatusTooManyRequests, message)
			}
			return next(c)
		}
	}
}
