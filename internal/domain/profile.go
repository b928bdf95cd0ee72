package domain

import "time"

// Profile is the durable application record keyed by the identity provider's
// user id. It is the fallback source for role resolution when token metadata
// carries no role.
type Profile struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
