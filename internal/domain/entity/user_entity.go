package entity

import (
	"time"
)

// User is the aggregate root for user domain.
// Email is the natural key: every sign-in with the same email resolves
// to the same record regardless of provider.
type User struct {
	ID        string
	Email     string
	Name      string
	PhotoURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserDocument is the searchable projection of a User. Timestamps are
// RFC 3339 strings.
type UserDocument struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	PhotoURL  string `json:"photo_url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
