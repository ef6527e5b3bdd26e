package httpserver

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const rateLimiterExpiry = 5 * time.Minute

// newRateLimiter limits /api requests per client IP. It runs before the
// passphrase check, so failed guesses spend the same budget as real calls.
func newRateLimiter(ratePerSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(ratePerSecond),
			Burst:     burst,
			ExpiresIn: rateLimiterExpiry,
		},
	)
	retryAfter := retryAfterSeconds(ratePerSecond)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			slog.WarnContext(c.Request().Context(), "API rate limit exceeded",
				"client_ip", identifier,
				"path", c.Request().URL.Path,
			)
			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded",
				"type":  "rate_limited",
			})
		},
	})
}

// retryAfterSeconds is the time one token takes to refill, at least a second.
func retryAfterSeconds(ratePerSecond float64) int {
	if ratePerSecond <= 0 {
		return int(rateLimiterExpiry.Seconds())
	}
	return max(1, int(math.Ceil(1/ratePerSecond)))
}
