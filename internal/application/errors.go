package application

import "errors"

var (
	// ErrPrivacyRestricted means the provider shared no email address, so
	// the profile cannot be matched to a local user.
	ErrPrivacyRestricted = errors.New("your email privacy settings prevent you from signing in")
	// ErrUserNotFound means a session references a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrStateMismatch means the OAuth callback did not carry the state issued
	// when the handshake started.
	ErrStateMismatch = errors.New("oauth state mismatch")
)
