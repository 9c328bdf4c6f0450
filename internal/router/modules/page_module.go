package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/bookworm-oauth/internal/interface/http"
)

type PageModule struct {
	Handler *handlers.PageHandler
}

func NewPageModule(h *handlers.PageHandler) *PageModule {
	return &PageModule{Handler: h}
}

func (m *PageModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Index)
	rg.GET("/profile", m.Handler.Profile)
}
