package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bookworm-oauth/internal/application"
	"github.com/oksasatya/bookworm-oauth/internal/container"
	"github.com/oksasatya/bookworm-oauth/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/bookworm-oauth/internal/interface/http"
	"github.com/oksasatya/bookworm-oauth/internal/interface/middleware"
	"github.com/oksasatya/bookworm-oauth/internal/router/modules"
	"github.com/oksasatya/bookworm-oauth/pkg/helpers"
	"github.com/oksasatya/bookworm-oauth/pkg/validation"
	"github.com/oksasatya/bookworm-oauth/web"
)

// New builds the Gin engine with global middleware, views and every module.
func New(ctr *container.Container) *gin.Engine {
	cfg := ctr.Config
	validation.Init()
	errs := handlers.NewErrorHandler(cfg.AppName, cfg.IsDevelopment(), ctr.Logger)

	engine := gin.New()
	if err := middleware.TrustProxies(engine, cfg.TrustedProxyList(), cfg.TrustedPlatform); err != nil {
		helpers.LogError(ctr.Logger, "invalid TRUSTED_PROXIES, trusting none", err, nil)
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	if cfg.HTTPLogEnabled || cfg.IsDevelopment() {
		engine.Use(gin.Logger())
	}
	engine.Use(gin.CustomRecovery(errs.Recover))
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		engine.Use(cors.New(corsConfig(origins)))
	}

	engine.SetHTMLTemplate(web.Templates())
	engine.StaticFS("/static", web.Static())
	engine.NoRoute(errs.NotFound)

	sessions := application.NewSessionService(
		redisstore.NewSessionStore(ctr.Redis, cfg.SessionTTL),
		ctr.Users,
		ctr.Logger,
	)
	reg := NewRegistry(engine, middleware.Session(sessions, ctr.JWT, ctr.Cookies, ctr.Logger, errs.Fail))
	InitModules(reg, ctr, sessions, errs)
	reg.RegisterAll()
	return engine
}

// InitModules builds services and handlers from the container and adds
// their modules to the registry.
func InitModules(r *Registry, ctr *container.Container, sessions *application.SessionService, errs *handlers.ErrorHandler) {
	cfg := ctr.Config

	var (
		indexer  application.UserIndexer
		searcher application.UserSearcher
		notifier handlers.LoginNotifier
	)
	if ctr.Search != nil {
		indexer, searcher = ctr.Search, ctr.Search
	}
	if ctr.Notifier != nil {
		notifier = ctr.Notifier
	}

	identity := application.NewIdentityService(ctr.Users, indexer, ctr.Logger)
	users := application.NewService(ctr.Users, searcher, ctr.Logger)

	authHandler := handlers.NewAuthHandler(ctr.Providers, identity, sessions, ctr.Audit, notifier, ctr.JWT, ctr.Cookies, errs, ctr.Logger)

	r.Add(modules.NewPageModule(handlers.NewPageHandler(cfg.AppName)))
	r.Add(modules.NewAuthModule(authHandler, ctr.Redis))

	// softer per-IP limit on the whole API
	r.Use(middleware.RateLimit(ctr.Redis, 300, time.Minute, middleware.KeyByIP(), nil))
	r.AddAPI(modules.NewUserModule(handlers.NewUserHandler(users, errs, ctr.Logger), ctr.Redis))
	if cfg.DebugMetricsEnabled {
		r.AddAPI(modules.NewDebugModule(ctr.Redis))
	}
}

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
