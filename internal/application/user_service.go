package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	repo "github.com/oksasatya/bookworm-oauth/internal/domain/repository"
)

// UserSearcher finds indexed users.
type UserSearcher interface {
	Search(ctx context.Context, q string, size int) ([]entity.UserDocument, error)
}

// Service serves read-side user queries.
type Service struct {
	Repo   repo.UserRepository
	Search UserSearcher
	Logger *logrus.Logger
}

func NewService(repo repo.UserRepository, searcher UserSearcher, logger *logrus.Logger) *Service {
	return &Service{Repo: repo, Search: searcher, Logger: logger}
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return u, nil
}

// SearchUsers returns an empty result when no search index is configured.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]entity.UserDocument, error) {
	if s.Search == nil {
		return []entity.UserDocument{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Search.Search(ctx, q, size)
}
