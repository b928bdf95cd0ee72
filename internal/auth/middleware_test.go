package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/propdesk/property-service/internal/api/http"
	"github.com/propdesk/property-service/internal/auth"
	"github.com/propdesk/property-service/internal/domain"
	"github.com/propdesk/property-service/internal/identity"
	"github.com/propdesk/property-service/internal/observability"
)

type fakeVerifier struct {
	subjects map[string]*identity.Subject
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (*identity.Subject, error) {
	if subject, ok := f.subjects[token]; ok {
		return subject, nil
	}
	return nil, identity.ErrInvalidToken
}

func protectedApp(t *testing.T, handlerCalled *bool, allowed ...domain.Role) *fiber.App {
	t.Helper()

	verifier := &fakeVerifier{subjects: map[string]*identity.Subject{
		"admin-token": {
			ID:          "admin-1",
			Email:       "admin@example.com",
			AppMetadata: map[string]any{"role": "admin"},
		},
		"tenant-token": {
			ID:    "tenant-1",
			Email: "tenant@example.com",
		},
	}}
	resolver := auth.NewRoleResolverFromSources(auth.MetadataRole)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:  zap.NewNop(),
		Metrics: observability.NewMetrics(),
	})

	middleware := auth.NewMiddleware(verifier, resolver)
	app.Get("/protected", middleware.Handle, auth.RequireRole(allowed...), func(c *fiber.Ctx) error {
		*handlerCalled = true
		principal, _ := auth.PrincipalFromContext(c)
		return c.JSON(fiber.Map{"data": principal.Session()})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp, body
}

func TestMissingAuthorizationHeader(t *testing.T) {
	var called bool
	app := protectedApp(t, &called, domain.RoleAdmin)

	resp, body := doRequest(t, app, "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, called, "handler must never run without a token")

	errBody := body["error"].(map[string]any)
	assert.Equal(t, "UNAUTHORIZED", errBody["code"])
	assert.NotEmpty(t, errBody["request_id"])
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	for _, header := range []string{"admin-token", "Token admin-token", "Bearer "} {
		var called bool
		app := protectedApp(t, &called, domain.RoleAdmin)

		resp, _ := doRequest(t, app, header)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		assert.False(t, called, header)
	}
}

func TestInvalidToken(t *testing.T) {
	var called bool
	app := protectedApp(t, &called, domain.RoleAdmin)

	resp, body := doRequest(t, app, "Bearer forged-token")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, called)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "invalid token", errBody["message"])
}

func TestRoleOutsideAllowedSet(t *testing.T) {
	var called bool
	app := protectedApp(t, &called, domain.RoleAdmin)

	resp, body := doRequest(t, app, "Bearer tenant-token")

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, called, "handler must never run for a forbidden role")
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "FORBIDDEN", errBody["code"])
}

func TestAuthorizedRequest(t *testing.T) {
	var called bool
	app := protectedApp(t, &called, domain.RoleAdmin)

	resp, body := doRequest(t, app, "Bearer admin-token")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, called)

	data := body["data"].(map[string]any)
	assert.Equal(t, "admin-1", data["id"])
	assert.Equal(t, "admin", data["role"])
}

func TestTenantTokenFallsBackToDefaultRole(t *testing.T) {
	var called bool
	app := protectedApp(t, &called, domain.RoleTenant)

	resp, body := doRequest(t, app, "Bearer tenant-token")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "tenant", data["role"])
}
