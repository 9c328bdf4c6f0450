package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/bookworm-oauth/internal/interface/http"
	"github.com/oksasatya/bookworm-oauth/internal/interface/middleware"
)

// AuthModule registers, for every configured provider:
//
//	GET /auth/login/<provider>
//	GET /auth/<provider>/return
//
// plus GET /auth/logout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// 30 req/min per IP and route
	limiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	for _, name := range m.Handler.Providers.Names() {
		rg.GET("/auth/login/"+name, limiter, m.Handler.Login(name))
		rg.GET("/auth/"+name+"/return", limiter, m.Handler.Return(name))
	}
	rg.GET("/auth/logout", limiter, m.Handler.Logout)
}
