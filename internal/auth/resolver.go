package auth

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/propdesk/property-service/internal/domain"
	"github.com/propdesk/property-service/internal/identity"
	"github.com/propdesk/property-service/internal/repository"
)

// RoleSource is one strategy for determining a subject's role. It reports a
// miss rather than an error; the resolver falls through to the next source.
type RoleSource func(ctx context.Context, subject *identity.Subject) (domain.Role, bool)

// RoleResolver determines a subject's role from an ordered list of sources,
// first match wins. Token metadata stays authoritative over the profile table
// so already-issued tokens keep working when the table is unreachable.
type RoleResolver struct {
	sources []RoleSource
}

// NewRoleResolver wires the standard precedence: token metadata, cached
// profile role, profile table, then the default role.
func NewRoleResolver(cache repository.RoleCache, profiles repository.ProfileRepository, logger *zap.Logger) *RoleResolver {
	return &RoleResolver{
		sources: []RoleSource{
			MetadataRole,
			CachedRole(cache),
			ProfileRole(profiles, cache, logger),
		},
	}
}

// NewRoleResolverFromSources builds a resolver with explicit sources, mainly
// for tests exercising precedence in isolation.
func NewRoleResolverFromSources(sources ...RoleSource) *RoleResolver {
	return &RoleResolver{sources: sources}
}

// Resolve returns the subject's role, never failing: exhausted sources yield
// the default role.
func (r *RoleResolver) Resolve(ctx context.Context, subject *identity.Subject) domain.Role {
	for _, source := range r.sources {
		if role, ok := source(ctx, subject); ok {
			return role
		}
	}
	return domain.DefaultRole
}

// MetadataRole reads the role embedded in the token's app metadata.
func MetadataRole(_ context.Context, subject *identity.Subject) (domain.Role, bool) {
	return domain.ParseRole(subject.RoleHint())
}

// CachedRole consults the server-side role cache.
func CachedRole(cache repository.RoleCache) RoleSource {
	return func(ctx context.Context, subject *identity.Subject) (domain.Role, bool) {
		if cache == nil {
			return "", false
		}
		raw, ok := cache.Get(ctx, subject.ID)
		if !ok {
			return "", false
		}
		return domain.ParseRole(raw)
	}
}

// ProfileRole looks the role up in the profiles table. Lookup errors are
// logged and treated as a miss; they must never abort the request. Hits are
// written back to the cache.
func ProfileRole(profiles repository.ProfileRepository, cache repository.RoleCache, logger *zap.Logger) RoleSource {
	return func(ctx context.Context, subject *identity.Subject) (domain.Role, bool) {
		if profiles == nil {
			return "", false
		}
		profile, err := profiles.GetByID(ctx, subject.ID)
		if err != nil {
			if err != pgx.ErrNoRows {
				logger.Warn("profile lookup failed during role resolution",
					zap.String("user_id", subject.ID), zap.Error(err))
			}
			return "", false
		}
		role, ok := domain.ParseRole(string(profile.Role))
		if !ok {
			return "", false
		}
		if cache != nil {
			cache.Set(ctx, subject.ID, string(role))
		}
		return role, true
	}
}
