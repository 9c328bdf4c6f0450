package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	repo "github.com/oksasatya/bookworm-oauth/internal/domain/repository"
	"github.com/oksasatya/bookworm-oauth/pkg/helpers"
)

// SessionStore persists session hashes. Get returns repo.ErrNotFound for
// unknown ids.
type SessionStore interface {
	Create(ctx context.Context, fields map[string]any) (string, error)
	Get(ctx context.Context, sid string) (*entity.Session, error)
	Set(ctx context.Context, sid string, fields map[string]any) error
	Unset(ctx context.Context, sid string, fields ...string) error
	Delete(ctx context.Context, sid string) error
}

// SessionService binds users to sessions. Only the user id is stored in
// the session; the record is loaded again on every request.
type SessionService struct {
	Store  SessionStore
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewSessionService(store SessionStore, users repo.UserRepository, logger *logrus.Logger) *SessionService {
	return &SessionService{Store: store, Users: users, Logger: logger}
}

// Serialize returns the value kept in the session for u.
func (s *SessionService) Serialize(u *entity.User) string {
	return u.ID
}

// Deserialize loads the user referenced by a session.
func (s *SessionService) Deserialize(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return u, nil
}

// Current resolves the session and its user. Missing sessions and stale
// bindings yield a nil user without error; the stale binding is dropped.
func (s *SessionService) Current(ctx context.Context, sid string) (*entity.Session, *entity.User, error) {
	if sid == "" {
		return nil, nil, nil
	}
	sess, err := s.Store.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.Authenticated() {
		return sess, nil, nil
	}

	u, err := s.Deserialize(ctx, sess.UserID)
	if errors.Is(err, ErrUserNotFound) {
		if uErr := s.Store.Unset(ctx, sid, entity.SessionUserID); uErr != nil && s.Logger != nil {
			s.Logger.WithError(uErr).WithField("sid", sid).Warn("drop stale session binding failed")
		}
		sess.UserID = ""
		return sess, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return sess, u, nil
}

// BeginHandshake records a fresh OAuth state for provider, creating the
// session when sid is empty or unknown. It returns the session id in use.
func (s *SessionService) BeginHandshake(ctx context.Context, sid, provider string) (string, string, error) {
	state, err := helpers.RandomToken(32)
	if err != nil {
		return "", "", err
	}
	fields := map[string]any{
		entity.SessionOAuthState:    state,
		entity.SessionOAuthProvider: provider,
	}

	if sid != "" {
		if _, gErr := s.Store.Get(ctx, sid); gErr == nil {
			if err := s.Store.Set(ctx, sid, fields); err != nil {
				return "", "", err
			}
			return sid, state, nil
		} else if !errors.Is(gErr, repo.ErrNotFound) {
			return "", "", gErr
		}
	}

	sid, err = s.Store.Create(ctx, fields)
	if err != nil {
		return "", "", err
	}
	return sid, state, nil
}

// ConsumeState checks the callback state against the one issued by
// BeginHandshake. The stored state is single use.
func (s *SessionService) ConsumeState(ctx context.Context, sid, provider, state string) error {
	if sid == "" || state == "" {
		return ErrStateMismatch
	}
	sess, err := s.Store.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrStateMismatch
		}
		return err
	}
	if err := s.Store.Unset(ctx, sid, entity.SessionOAuthState, entity.SessionOAuthProvider); err != nil {
		return err
	}
	if sess.OAuthState == "" || sess.OAuthState != state || sess.OAuthProvider != provider {
		return ErrStateMismatch
	}
	return nil
}

// Login binds u to a new session and discards the previous one, so a
// session id seen before sign-in never becomes authenticated.
func (s *SessionService) Login(ctx context.Context, oldSID string, u *entity.User) (string, error) {
	sid, err := s.Store.Create(ctx, map[string]any{entity.SessionUserID: s.Serialize(u)})
	if err != nil {
		return "", err
	}
	if oldSID != "" {
		if dErr := s.Store.Delete(ctx, oldSID); dErr != nil && s.Logger != nil {
			s.Logger.WithError(dErr).WithField("sid", oldSID).Warn("delete previous session failed")
		}
	}
	return sid, nil
}

// Logout removes the session binding and keeps the rest of the session.
// It returns the id of the user that was bound, if any.
func (s *SessionService) Logout(ctx context.Context, sid string) (string, error) {
	if sid == "" {
		return "", nil
	}
	sess, err := s.Store.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	if !sess.Authenticated() {
		return "", nil
	}
	if err := s.Store.Unset(ctx, sid, entity.SessionUserID); err != nil {
		return "", err
	}
	return sess.UserID, nil
}
