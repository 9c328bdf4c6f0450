package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/bookworm-oauth/internal/interface/http"
	"github.com/oksasatya/bookworm-oauth/internal/interface/middleware"
)

// UserModule wires the signed-in user's API under /api:
// GET /api/me, GET /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(
		middleware.RequireUser(),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/me", m.Handler.Me)
		auth.GET("/users/search", m.Handler.Search)
	}
}
