package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	"github.com/oksasatya/bookworm-oauth/internal/domain/repository"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return mockDB
}

func userRows(id, email, name, photo string, ts time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "email", "name", "photo_url", "created_at", "updated_at"}).
		AddRow(id, email, name, photo, ts, ts)
}

func TestUserRepository_Upsert(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		setupDB func(pgxmock.PgxPoolIface)
		want    *entity.User
		wantErr error
	}{
		{
			name: "insert or update returns stored row",
			setupDB: func(mockDB pgxmock.PgxPoolIface) {
				mockDB.ExpectQuery("INSERT INTO users").
					WithArgs("a@x.com", "Ann", "p.jpg").
					WillReturnRows(userRows("u-1", "a@x.com", "Ann", "p.jpg", now))
			},
			want: &entity.User{ID: "u-1", Email: "a@x.com", Name: "Ann", PhotoURL: "p.jpg", CreatedAt: now, UpdatedAt: now},
		},
		{
			name: "store error propagates",
			setupDB: func(mockDB pgxmock.PgxPoolIface) {
				mockDB.ExpectQuery("INSERT INTO users").
					WithArgs("a@x.com", "Ann", "p.jpg").
					WillReturnError(pgx.ErrTxClosed)
			},
			wantErr: pgx.ErrTxClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := newMockPool(t)
			tt.setupDB(mockDB)

			repo := NewUserRepository(mockDB)
			got, err := repo.Upsert(context.Background(), "a@x.com", "Ann", "p.jpg")

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		mockDB := newMockPool(t)
		mockDB.ExpectQuery("FROM users").
			WithArgs("u-1").
			WillReturnRows(userRows("u-1", "a@x.com", "Ann", "", now))

		u, err := NewUserRepository(mockDB).GetByID(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", u.Email)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		mockDB := newMockPool(t)
		mockDB.ExpectQuery("FROM users").
			WithArgs("gone").
			WillReturnError(pgx.ErrNoRows)

		u, err := NewUserRepository(mockDB).GetByID(context.Background(), "gone")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, u)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mockDB := newMockPool(t)
	mockDB.ExpectQuery("FROM users").
		WithArgs("a@x.com").
		WillReturnRows(userRows("u-1", "a@x.com", "Ann", "p.jpg", time.Now()))

	u, err := NewUserRepository(mockDB).GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestAuditRepository_Insert(t *testing.T) {
	mockDB := newMockPool(t)
	email := "a@x.com"
	var noText *string
	mockDB.ExpectExec("INSERT INTO auth_audit_logs").
		WithArgs(noText, &email, entity.AuditLoginFailure, pgxmock.AnyArg(), noText, noText, []byte(`{}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := NewAuditRepository(mockDB).Insert(context.Background(), entity.AuditLog{
		Email:    email,
		Action:   entity.AuditLoginFailure,
		Provider: "github",
	})
	require.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
