package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propdesk/property-service/internal/domain"
	"github.com/propdesk/property-service/internal/events"
	"github.com/propdesk/property-service/internal/identity"
	"github.com/propdesk/property-service/internal/repository"
	apperrors "github.com/propdesk/property-service/pkg/util"
)

const tempPasswordLength = 16

// AdminService performs the privileged two-step operations: create or invite
// an identity at the provider, then upsert the matching profile row. There is
// no compensating rollback of step one when step two fails; the failure is
// surfaced, logged, and emitted as an event for reconciliation.
type AdminService struct {
	ident      identity.AdminAPI
	profiles   repository.ProfileRepository
	cache      repository.RoleCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AdminDependencies encapsulates requirements for the admin service.
type AdminDependencies struct {
	Identity   identity.AdminAPI
	Profiles   repository.ProfileRepository
	RoleCache  repository.RoleCache
	Dispatcher events.Dispatcher
}

// NewAdminService builds the service.
func NewAdminService(deps AdminDependencies, logger *zap.Logger) *AdminService {
	return &AdminService{
		ident:      deps.Identity,
		profiles:   deps.Profiles,
		cache:      deps.RoleCache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreatedManager is the result of a successful manager creation.
type CreatedManager struct {
	UserID       string
	Email        string
	Name         string
	TempPassword string
}

// InvitedUser is the result of a successful invitation.
type InvitedUser struct {
	UserID string
	Email  string
	Role   domain.Role
}

// CreateManager provisions a manager identity with a temporary password and a
// matching profile row.
func (s *AdminService) CreateManager(ctx context.Context, actor events.Actor, name, email, phone string) (*CreatedManager, error) {
	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	subject, err := s.ident.CreateUser(ctx, identity.CreateUserParams{
		Email:        email,
		Password:     tempPassword,
		EmailConfirm: true,
		UserMetadata: map[string]any{"name": name, "phone": phone},
		AppMetadata:  map[string]any{"role": string(domain.RoleManager)},
	})
	if err != nil {
		return nil, s.mapIdentityError(err)
	}

	profile := &domain.Profile{
		ID:    subject.ID,
		Name:  name,
		Email: email,
		Phone: phone,
		Role:  domain.RoleManager,
	}
	if err := s.syncProfile(ctx, actor, profile); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventManagerCreated,
		UserID: subject.ID,
		Actor:  actor,
		Payload: events.ManagerCreatedPayload{
			Email: email,
			Name:  name,
		},
	})

	return &CreatedManager{
		UserID:       subject.ID,
		Email:        email,
		Name:         name,
		TempPassword: tempPassword,
	}, nil
}

// InviteUser sends a provider invitation and records the invited role.
func (s *AdminService) InviteUser(ctx context.Context, actor events.Actor, email string, role domain.Role) (*InvitedUser, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": "must be admin, manager or tenant"})
	}

	subject, err := s.ident.InviteUser(ctx, email, map[string]any{"role": string(role)})
	if err != nil {
		return nil, s.mapIdentityError(err)
	}

	profile := &domain.Profile{
		ID:    subject.ID,
		Email: email,
		Role:  role,
	}
	if err := s.syncProfile(ctx, actor, profile); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserInvited,
		UserID: subject.ID,
		Actor:  actor,
		Payload: events.UserInvitedPayload{
			Email: email,
			Role:  role,
		},
	})

	return &InvitedUser{UserID: subject.ID, Email: email, Role: role}, nil
}

// ListManagers returns all manager profiles.
func (s *AdminService) ListManagers(ctx context.Context) ([]*domain.Profile, error) {
	return s.profiles.ListByRole(ctx, domain.RoleManager)
}

// syncProfile upserts the profile row created alongside a provider identity.
// On failure the identity remains at the provider; the orphan is logged and
// announced rather than silently hidden.
func (s *AdminService) syncProfile(ctx context.Context, actor events.Actor, profile *domain.Profile) error {
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.logger.Warn("profile upsert failed after identity creation; identity retained",
			zap.String("user_id", profile.ID),
			zap.String("email", profile.Email),
			zap.Error(err))
		s.publish(ctx, events.Event{
			Type:   events.EventProfileSyncFailed,
			UserID: profile.ID,
			Actor:  actor,
			Payload: events.ProfileSyncFailedPayload{
				Email:  profile.Email,
				Reason: err.Error(),
			},
		})
		return apperrors.NewUpstreamFailure("identity created but profile record failed: "+err.Error(), 0)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, profile.ID)
	}
	return nil
}

func (s *AdminService) mapIdentityError(err error) error {
	if errors.Is(err, identity.ErrMissingServiceKey) {
		return apperrors.NewServiceUnavailable("identity service credential not configured")
	}
	var provErr *identity.ProviderError
	if errors.As(err, &provErr) {
		return apperrors.NewUpstreamFailure(provErr.Message, provErr.Status)
	}
	return apperrors.NewInternalError(err)
}

func (s *AdminService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

const tempPasswordCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789!@#$%"

func generateTempPassword() (string, error) {
	buf := make([]byte, tempPasswordLength)
	charsetLen := big.NewInt(int64(len(tempPasswordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordCharset[n.Int64()]
	}
	return string(buf), nil
}
