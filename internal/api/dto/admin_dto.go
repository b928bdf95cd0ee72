package dto

import "strings"

// CreateManagerRequest payload for POST /api/admin/managers.
type CreateManagerRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,min=7,max=20"`
}

// Normalize trims whitespace and lowercases the email.
func (r *CreateManagerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
}

// InviteUserRequest payload for POST /api/admin/invite.
type InviteUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin manager tenant"`
}

// Normalize trims whitespace and lowercases fields.
func (r *InviteUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

// ManagerResponse describes a manager profile in list responses.
type ManagerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
