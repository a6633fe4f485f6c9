package domain

import "time"

// Audit actions recorded for security-relevant events.
const (
	AuditRegister    = "register"
	AuditLogin       = "login"
	AuditLoginFailed = "login_failed"
)

// AuditEvent records one security-relevant action keyed by the principal's
// email. Events are persisted asynchronously and never block a request.
type AuditEvent struct {
	Email     string    `json:"email"`
	Action    string    `json:"action"`
	TraceID   string    `json:"trace_id"`
	Timestamp time.Time `json:"timestamp"`
}
