package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/property-service/internal/config"
)

// securityApp wires RegisterSecurity with in-memory storage and a mix of API
// and browser-facing routes.
func securityApp(cfg config.SecurityConfig) *fiber.App {
	app := fiber.New()
	RegisterSecurity(app, cfg, nil)

	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
	app.Get("/settings", ok)
	app.Post("/settings", ok)
	app.Get("/api/ping", ok)
	app.Post("/api/echo", ok)
	return app
}

func TestCSRFRejectsNonAPIWriteWithoutToken(t *testing.T) {
	app := securityApp(config.SecurityConfig{
		CSRFEnabled:    true,
		CSRFCookieName: "csrf_token",
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/settings", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCSRFExemptsAPIRoutes(t *testing.T) {
	app := securityApp(config.SecurityConfig{
		CSRFEnabled:    true,
		CSRFCookieName: "csrf_token",
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/echo", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	app := securityApp(config.SecurityConfig{
		CSRFEnabled:    true,
		CSRFCookieName: "csrf_token",
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "csrf_token" {
			token = cookie
		}
	}
	require.NotNil(t, token, "safe request must issue a csrf cookie")

	req := httptest.NewRequest(http.MethodPost, "/settings", nil)
	req.AddCookie(token)
	req.Header.Set("X-CSRF-Token", token.Value)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimiterReturnsEnvelopeOnExceed(t *testing.T) {
	app := securityApp(config.SecurityConfig{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)
	assert.Equal(t, "too many requests", body.Error.Message)
}

func TestRateLimiterLeavesNonAPIRoutesAlone(t *testing.T) {
	app := securityApp(config.SecurityConfig{RateLimitPerMinute: 1})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/settings", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
