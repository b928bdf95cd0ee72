package events

import (
	"time"

	"github.com/propdesk/property-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventManagerCreated    EventType = "account.manager_created"
	EventUserInvited       EventType = "account.user_invited"
	EventProfileSyncFailed EventType = "account.profile_sync_failed"
)

// Actor is the administrator who performed the operation.
type Actor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// Event represents an account event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ManagerCreatedPayload payload.
type ManagerCreatedPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserInvitedPayload payload.
type UserInvitedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// ProfileSyncFailedPayload records an identity whose profile row could not be
// written, so a reconciliation pass can pick it up.
type ProfileSyncFailedPayload struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}
