package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookworm-oauth/config"
	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	"github.com/oksasatya/bookworm-oauth/internal/domain/repository"
	pginfra "github.com/oksasatya/bookworm-oauth/internal/infrastructure/postgres"
	"github.com/oksasatya/bookworm-oauth/internal/infrastructure/search"
	"github.com/oksasatya/bookworm-oauth/pkg/helpers"
)

// seed creates a demo user the same way a first sign-in would and, when
// Elasticsearch is configured, indexes it.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	u, created, err := seedUser(ctx, pginfra.NewUserRepository(pool), demoEmail, demoName)
	if err != nil {
		logger.WithError(err).Fatal("failed to seed user")
	}
	fields := logrus.Fields{"id": u.ID, "email": u.Email, "name": u.Name}
	if created {
		logger.WithFields(fields).Info("seeded user")
	} else {
		logger.WithFields(fields).Info("user already present, left unchanged")
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil || es == nil {
		return
	}
	if err := search.NewUserIndex(es, cfg.ESUsersIndex).IndexUser(ctx, u); err != nil {
		logger.WithError(err).Warn("index seeded user failed")
		return
	}
	logger.Info("seeded user indexed")
}

const (
	demoEmail = "demo@bookworm.local"
	demoName  = "Demo Reader"
)

// seedUser returns the existing user for email untouched, or creates it.
func seedUser(ctx context.Context, users repository.UserRepository, email, name string) (*entity.User, bool, error) {
	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return u, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, err
	}
	u, err = users.Upsert(ctx, email, name, "")
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}
