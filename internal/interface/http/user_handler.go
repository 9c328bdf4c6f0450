package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/bookworm-oauth/internal/application"
	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	"github.com/oksasatya/bookworm-oauth/internal/interface/middleware"
	"github.com/oksasatya/bookworm-oauth/pkg/response"
	"github.com/oksasatya/bookworm-oauth/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Errors *ErrorHandler
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, errs *ErrorHandler, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Errors: errs, Logger: logger}
}

type searchRequest struct {
	Q    string `form:"q" binding:"required,searchq"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"photo_url":  u.PhotoURL,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// Me GET /api/me
func (h *UserHandler) Me(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		response.Error[any](c, http.StatusUnauthorized, "not signed in", nil)
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), current.ID)
	if errors.Is(err, userapp.ErrUserNotFound) {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err != nil {
		h.Errors.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "profile", nil)
}

// Search GET /api/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	docs, err := h.Svc.SearchUsers(c.Request.Context(), req.Q, req.Size)
	if err != nil {
		h.Errors.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs, "users", gin.H{"count": len(docs), "query": req.Q})
}
