package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/propdesk/property-service/internal/config"
)

// RegisterSecurity attaches rate limiting for the API surface and CSRF
// protection for everything else. API routes are exempt from CSRF because they
// are authorized via bearer token instead of cookies.
func RegisterSecurity(app *fiber.App, cfg config.SecurityConfig, store fiber.Storage) {
	if cfg.RateLimitPerMinute > 0 {
		app.Use("/api", limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerMinute,
			Expiration: time.Minute,
			Storage:    store,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
					"error": fiber.Map{
						"code":    "RATE_LIMITED",
						"message": "too many requests",
					},
				})
			},
		}))
	}

	if cfg.CSRFEnabled {
		app.Use(csrf.New(csrf.Config{
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/api/")
			},
			KeyLookup:      "header:X-CSRF-Token",
			CookieName:     cfg.CSRFCookieName,
			CookieSameSite: "Lax",
			CookieSecure:   true,
			CookieHTTPOnly: true,
			Expiration:     1 * time.Hour,
			Storage:        store,
		}))
	}
}
