package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	"github.com/oksasatya/bookworm-oauth/internal/domain/repository"
)

const userColumns = `id, email, name, photo_url, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert relies on the unique index on users.email; concurrent sign-ins
// with the same email converge on one row.
func (r *UserRepository) Upsert(ctx context.Context, email, name, photoURL string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, photo_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, photo_url = EXCLUDED.photo_url, updated_at = now()
		RETURNING `+userColumns, email, name, photoURL)

	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)

	return scanUser(row)
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
