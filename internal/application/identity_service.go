package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	repo "github.com/oksasatya/bookworm-oauth/internal/domain/repository"
)

// UserIndexer receives every user written by a sign-in.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
}

// IdentityService reconciles provider profiles with local users. Every
// provider goes through the same ResolveOrCreateUser so merge rules never
// diverge between them.
type IdentityService struct {
	Repo    repo.UserRepository
	Indexer UserIndexer
	Logger  *logrus.Logger
}

func NewIdentityService(repo repo.UserRepository, indexer UserIndexer, logger *logrus.Logger) *IdentityService {
	return &IdentityService{Repo: repo, Indexer: indexer, Logger: logger}
}

// ResolveOrCreateUser upserts the user keyed by the profile's first email.
// A profile without email fails with ErrPrivacyRestricted before any write.
func (s *IdentityService) ResolveOrCreateUser(ctx context.Context, p *entity.Profile) (*entity.User, error) {
	email := p.PrimaryEmail()
	if email == "" {
		return nil, ErrPrivacyRestricted
	}

	u, err := s.Repo.Upsert(ctx, email, p.Name(), p.PhotoURL())
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	if s.Indexer != nil {
		if iErr := s.Indexer.IndexUser(ctx, u); iErr != nil && s.Logger != nil {
			s.Logger.WithError(iErr).WithField("user_id", u.ID).Warn("index user failed")
		}
	}
	return u, nil
}
