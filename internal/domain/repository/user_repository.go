package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Upsert atomically inserts a user keyed by email, or updates name and
	// photo of the existing one, and returns the stored record.
	Upsert(ctx context.Context, email, name, photoURL string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// AuditRepository stores sign-in events.
type AuditRepository interface {
	Insert(ctx context.Context, log entity.AuditLog) error
}
