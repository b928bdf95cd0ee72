package identity

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseValidToken(t *testing.T) {
	tokenStr := signToken(t, "project-secret", jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           "user-42",
		"email":         "manager@example.com",
		"user_metadata": map[string]any{"name": "Dana Reyes"},
		"app_metadata":  map[string]any{"role": "manager"},
		"exp":           time.Now().Add(time.Hour).Unix(),
	})

	subject, err := NewTokenParser("project-secret").Parse(tokenStr)
	require.NoError(t, err)

	assert.Equal(t, "user-42", subject.ID)
	assert.Equal(t, "manager@example.com", subject.Email)
	assert.Equal(t, "Dana Reyes", subject.Name())
	assert.Equal(t, "manager", subject.RoleHint())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tokenStr := signToken(t, "other-secret", jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := NewTokenParser("project-secret").Parse(tokenStr)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tokenStr := signToken(t, "project-secret", jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := NewTokenParser("project-secret").Parse(tokenStr)
	assert.Error(t, err)
}

func TestParseRejectsUnexpectedSigningMethod(t *testing.T) {
	tokenStr := signToken(t, "project-secret", jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := NewTokenParser("project-secret").Parse(tokenStr)
	assert.Error(t, err)
}

func TestParseRejectsMissingSubject(t *testing.T) {
	tokenStr := signToken(t, "project-secret", jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "nobody@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	_, err := NewTokenParser("project-secret").Parse(tokenStr)
	assert.Error(t, err)
}
