package postgres

import (
	"context"
	"encoding/json"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	"github.com/oksasatya/bookworm-oauth/internal/domain/repository"
)

type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, l entity.AuditLog) error {
	if l.Metadata == nil {
		l.Metadata = map[string]any{}
	}
	md, err := json.Marshal(l.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO auth_audit_logs (user_id, email, action, provider, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, nullable(l.UserID), nullable(l.Email), l.Action, nullable(l.Provider), nullable(l.IP), nullable(l.UserAgent), md)
	return err
}

// nullable maps "" to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
