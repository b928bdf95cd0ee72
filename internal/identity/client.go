package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/propdesk/property-service/internal/config"
)

// Errors surfaced by provider calls.
var (
	ErrInvalidToken      = errors.New("identity: token verification failed")
	ErrMissingServiceKey = errors.New("identity: service role key not configured")
)

// ProviderError carries the provider's own status and message so upstream
// failures can be surfaced without inventing detail.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider error (%d): %s", e.Status, e.Message)
}

// Subject is the identity resolved from a verified token or an admin call.
type Subject struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
}

// Name returns the display name from user metadata, if present.
func (s *Subject) Name() string {
	if s == nil {
		return ""
	}
	if name, ok := s.UserMetadata["name"].(string); ok {
		return name
	}
	return ""
}

// RoleHint returns the raw role value embedded in app metadata. Callers must
// validate it; the provider does not constrain the value.
func (s *Subject) RoleHint() string {
	if s == nil {
		return ""
	}
	if role, ok := s.AppMetadata["role"].(string); ok {
		return role
	}
	return ""
}

// Verifier exchanges a bearer token for the subject it identifies.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*Subject, error)
}

// AdminAPI covers provider operations that require the service role key.
type AdminAPI interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*Subject, error)
	InviteUser(ctx context.Context, email string, data map[string]any) (*Subject, error)
}

// CreateUserParams describes an admin-created identity.
type CreateUserParams struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
}

// Client talks to the hosted identity provider. It is constructed once at
// process start and injected wherever verification or admin calls are needed.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
	tokens     *TokenParser
	logger     *zap.Logger
}

// NewClient builds a provider client from configuration. When a JWT secret is
// configured, tokens are verified locally; the remote user endpoint is the
// fallback when local verification is inconclusive.
func NewClient(cfg config.IdentityConfig, logger *zap.Logger) *Client {
	var tokens *TokenParser
	if cfg.JWTSecret != "" {
		tokens = NewTokenParser(cfg.JWTSecret)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceRoleKey,
		http:       &http.Client{Timeout: cfg.Timeout()},
		tokens:     tokens,
		logger:     logger,
	}
}

// HasServiceKey reports whether privileged admin calls are possible.
func (c *Client) HasServiceKey() bool {
	return c.serviceKey != ""
}

// VerifyToken resolves the subject behind a bearer token. Failure is never
// retried; timeouts and network errors fail closed to an invalid token.
func (c *Client) VerifyToken(ctx context.Context, token string) (*Subject, error) {
	if c.tokens != nil {
		subject, err := c.tokens.Parse(token)
		if err == nil {
			return subject, nil
		}
		if c.baseURL == "" {
			return nil, ErrInvalidToken
		}
		c.logger.Debug("local token parse inconclusive, verifying remotely", zap.Error(err))
	}
	if c.baseURL == "" {
		return nil, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, ErrInvalidToken
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("token verification call failed", zap.Error(err))
		return nil, ErrInvalidToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var subject Subject
	if err := json.NewDecoder(resp.Body).Decode(&subject); err != nil || subject.ID == "" {
		return nil, ErrInvalidToken
	}
	return &subject, nil
}

// CreateUser provisions a new identity through the provider's admin endpoint.
func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (*Subject, error) {
	return c.adminPost(ctx, "/auth/v1/admin/users", params)
}

// InviteUser sends a provider-managed invitation email.
func (c *Client) InviteUser(ctx context.Context, email string, data map[string]any) (*Subject, error) {
	body := map[string]any{"email": email}
	if len(data) > 0 {
		body["data"] = data
	}
	return c.adminPost(ctx, "/auth/v1/invite", body)
}

func (c *Client) adminPost(ctx context.Context, path string, body any) (*Subject, error) {
	if c.serviceKey == "" {
		return nil, ErrMissingServiceKey
	}
	if c.baseURL == "" {
		return nil, ErrMissingServiceKey
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ProviderError{Status: http.StatusBadGateway, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{Status: resp.StatusCode, Message: readProviderMessage(resp.Body)}
	}

	var subject Subject
	if err := json.NewDecoder(resp.Body).Decode(&subject); err != nil {
		return nil, &ProviderError{Status: resp.StatusCode, Message: "malformed provider response"}
	}
	return &subject, nil
}

func readProviderMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return "provider request failed"
	}
	var body struct {
		Message  string `json:"message"`
		Msg      string `json:"msg"`
		ErrorMsg string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			return body.Message
		case body.Msg != "":
			return body.Msg
		case body.ErrorMsg != "":
			return body.ErrorMsg
		}
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return "provider request failed"
}
