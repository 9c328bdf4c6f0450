package entity

// Session is the server-side state behind a session cookie. UserID is the
// session binding; it is empty for anonymous sessions.
type Session struct {
	ID            string
	UserID        string
	OAuthState    string
	OAuthProvider string
	CreatedAt     string
	UpdatedAt     string
}

// Authenticated reports whether a user is bound to the session.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Stored session fields.
const (
	SessionUserID        = "user_id"
	SessionOAuthState    = "oauth_state"
	SessionOAuthProvider = "oauth_provider"
	SessionCreatedAt     = "created_at"
	SessionUpdatedAt     = "updated_at"
)
