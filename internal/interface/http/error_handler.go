package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookworm-oauth/internal/interface/middleware"
	"github.com/oksasatya/bookworm-oauth/pkg/helpers"
	"github.com/oksasatya/bookworm-oauth/pkg/response"
)

// ErrorHandler renders the terminal error page. Details are only shown
// in development.
type ErrorHandler struct {
	AppName string
	Dev     bool
	Logger  *logrus.Logger
}

func NewErrorHandler(appName string, dev bool, logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{AppName: appName, Dev: dev, Logger: logger}
}

// RenderError writes the error page, or the JSON envelope under /api.
func (h *ErrorHandler) RenderError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		helpers.LogError(h.Logger, "request failed", err, helpers.RequestFields(c))
	}

	detail := ""
	if h.Dev && err != nil {
		detail = err.Error()
	}

	if isAPI(c) {
		var details any
		if detail != "" {
			details = detail
		}
		response.Error[any](c, status, strings.ToLower(http.StatusText(status)), details)
		c.Abort()
		return
	}

	c.HTML(status, "error.tmpl", gin.H{
		"Title":   h.AppName,
		"User":    middleware.CurrentUser(c),
		"Status":  status,
		"Message": http.StatusText(status),
		"Detail":  detail,
	})
	c.Abort()
}

// Fail renders a 500 for err.
func (h *ErrorHandler) Fail(c *gin.Context, err error) {
	h.RenderError(c, http.StatusInternalServerError, err)
}

// NotFound handles unmatched routes.
func (h *ErrorHandler) NotFound(c *gin.Context) {
	h.RenderError(c, http.StatusNotFound, errors.New("no route for "+c.Request.Method+" "+c.Request.URL.Path))
}

// Recover is used with gin.CustomRecovery.
func (h *ErrorHandler) Recover(c *gin.Context, rec any) {
	h.RenderError(c, http.StatusInternalServerError, fmt.Errorf("panic: %v", rec))
}

func isAPI(c *gin.Context) bool {
	p := c.Request.URL.Path
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
