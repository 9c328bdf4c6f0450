package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookworm-oauth/config"
	"github.com/oksasatya/bookworm-oauth/internal/domain/repository"
	"github.com/oksasatya/bookworm-oauth/internal/infrastructure/oauth"
	"github.com/oksasatya/bookworm-oauth/internal/infrastructure/search"
	"github.com/oksasatya/bookworm-oauth/pkg/helpers"
	"github.com/oksasatya/bookworm-oauth/pkg/mailer"
)

// Container carries the components built in cmd/main.go to the router.
// Search and Notifier are optional.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client

	Users repository.UserRepository
	Audit repository.AuditRepository

	JWT       *helpers.JWTManager
	Cookies   *helpers.Manager
	Providers *oauth.Registry

	Search   *search.UserIndex
	Notifier *mailer.QueueNotifier
}

// New fills the session helpers from cfg.
func New(cfg *config.Config, logger *logrus.Logger, rdb *redis.Client, users repository.UserRepository, audit repository.AuditRepository, providers *oauth.Registry) *Container {
	return &Container{
		Config:    cfg,
		Logger:    logger,
		Redis:     rdb,
		Users:     users,
		Audit:     audit,
		JWT:       helpers.NewJWTManager(cfg.SessionSecret, cfg.SessionTTL),
		Cookies:   helpers.NewCookie(cfg.SessionCookieName, cfg.CookieDomain, cfg.CookieSecure),
		Providers: providers,
	}
}

// ProvidersFromConfig builds the GitHub and Facebook adapters.
func ProvidersFromConfig(cfg *config.Config) *oauth.Registry {
	return oauth.NewRegistry(
		oauth.NewGitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL,
			oauth.WithHTTPTimeout(cfg.OAuthHTTPTimeout)),
		oauth.NewFacebook(cfg.FacebookAppID, cfg.FacebookAppSecret, cfg.FacebookCallbackURL,
			oauth.WithHTTPTimeout(cfg.OAuthHTTPTimeout)),
	)
}
