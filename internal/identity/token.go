package identity

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenParser verifies provider-issued HS256 tokens against the project
// secret, avoiding a network round trip per request.
type TokenParser struct {
	secret []byte
	leeway time.Duration
}

// NewTokenParser builds a parser for the given secret.
func NewTokenParser(secret string) *TokenParser {
	return &TokenParser{secret: []byte(secret), leeway: 30 * time.Second}
}

// Claims describes the provider's JWT payload.
type Claims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
	jwt.RegisteredClaims
}

// Parse validates the token signature and expiry and returns the subject.
func (tp *TokenParser) Parse(tokenStr string) (*Subject, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tp.secret, nil
	}, jwt.WithLeeway(tp.leeway))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}

	return &Subject{
		ID:           claims.Subject,
		Email:        claims.Email,
		UserMetadata: claims.UserMetadata,
		AppMetadata:  claims.AppMetadata,
	}, nil
}
