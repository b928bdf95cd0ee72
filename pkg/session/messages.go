package session

import "strings"

const genericErrorMessage = "Something went wrong. Please try again."

// Translate maps known provider error messages to user-facing copy, falling
// back to the raw message or a generic line.
func Translate(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "not authorized"),
		strings.Contains(lower, "forbidden"):
		return "You don't have permission to do that."
	case strings.Contains(lower, "expired"),
		strings.Contains(lower, "invalid token"),
		strings.Contains(lower, "jwt"):
		return "Your session has expired. Please sign in again."
	case strings.Contains(lower, "network"),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "deadline exceeded"),
		strings.Contains(lower, "connection refused"):
		return "We couldn't reach the server. Check your connection and try again."
	case strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "too many requests"):
		return "Too many attempts. Please wait a moment and try again."
	case msg != "":
		return msg
	default:
		return genericErrorMessage
	}
}
