package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/property-service/internal/domain"
	"github.com/propdesk/property-service/internal/identity"
	apperrors "github.com/propdesk/property-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller after verification and role
// resolution.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   domain.Role
}

// Session returns the principal as the shared session record.
func (p *Principal) Session() *domain.Session {
	return &domain.Session{ID: p.UserID, Email: p.Email, Name: p.Name, Role: p.Role}
}

// Middleware validates bearer tokens and resolves the caller's role. Token
// verification runs strictly before role resolution, which runs strictly
// before any gate check.
type Middleware struct {
	verifier identity.Verifier
	resolver *RoleResolver
}

// NewMiddleware constructs middleware.
func NewMiddleware(verifier identity.Verifier, resolver *RoleResolver) *Middleware {
	return &Middleware{verifier: verifier, resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	subject, err := m.verifier.VerifyToken(c.UserContext(), parts[1])
	if err != nil || subject == nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{
		UserID: subject.ID,
		Email:  subject.Email,
		Name:   subject.Name(),
		Role:   m.resolver.Resolve(c.UserContext(), subject),
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
