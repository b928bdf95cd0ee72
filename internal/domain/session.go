package domain

// Session is the resolved user record shared by the server auth path and the
// client session cache. The role carried here is authoritative only when
// resolved server-side; a cached copy is a UI hint, never a security boundary.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
