package entity

// Audit actions recorded for sign-in events.
const (
	AuditLoginSuccess = "login_success"
	AuditLoginFailure = "login_failure"
	AuditLogout       = "logout"
)

// AuditLog is a single sign-in event. UserID and Email may be empty for
// failed attempts.
type AuditLog struct {
	UserID    string
	Email     string
	Action    string
	Provider  string
	IP        string
	UserAgent string
	Metadata  map[string]any
}
