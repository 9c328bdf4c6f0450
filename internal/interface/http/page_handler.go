package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bookworm-oauth/internal/interface/middleware"
)

// PageHandler renders the HTML pages.
type PageHandler struct {
	AppName string
}

func NewPageHandler(appName string) *PageHandler {
	return &PageHandler{AppName: appName}
}

// Index GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Title": h.AppName,
		"User":  middleware.CurrentUser(c),
	})
}

// Profile GET /profile; anonymous visitors go back to the index.
func (h *PageHandler) Profile(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		c.Redirect(http.StatusFound, pathHome)
		return
	}
	c.HTML(http.StatusOK, "profile.tmpl", gin.H{
		"Title": u.Name + " | " + h.AppName,
		"User":  u,
	})
}
