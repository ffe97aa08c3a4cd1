package domain

import "time"

// Audit actions recorded by the auth layer.
const (
	AuditLogin       = "login"
	AuditLoginFailed = "login_failed"
	AuditLogout      = "logout"
	AuditRefresh     = "refresh"
)

// AuditEvent is a single entry in the auth audit trail. Events for the same
// actor are applied in order; events for different actors are independent.
type AuditEvent struct {
	ID        string    `json:"id,omitempty"`
	Actor     string    `json:"actor"` // email as submitted, even when unknown
	UserID    string    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	At        time.Time `json:"at"`
}
