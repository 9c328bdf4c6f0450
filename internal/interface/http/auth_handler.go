package handlers

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookworm-oauth/internal/application"
	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	repo "github.com/oksasatya/bookworm-oauth/internal/domain/repository"
	"github.com/oksasatya/bookworm-oauth/internal/infrastructure/oauth"
	"github.com/oksasatya/bookworm-oauth/internal/interface/middleware"
	"github.com/oksasatya/bookworm-oauth/pkg/helpers"
	"github.com/oksasatya/bookworm-oauth/pkg/mailer"
)

// Login counters published on /api/debug/vars, keyed by "<provider>_<outcome>".
var authEvents = expvar.NewMap("auth_events")

const (
	pathHome    = "/"
	pathProfile = "/profile"
)

// LoginNotifier queues the sign-in notification email.
type LoginNotifier interface {
	NotifyLogin(ctx context.Context, ev mailer.LoginEvent) error
}

type AuthHandler struct {
	Providers *oauth.Registry
	Identity  *application.IdentityService
	Sessions  *application.SessionService
	Audit     repo.AuditRepository
	Notifier  LoginNotifier
	JWT       *helpers.JWTManager
	Cookies   *helpers.Manager
	Errors    *ErrorHandler
	Logger    *logrus.Logger
}

func NewAuthHandler(
	providers *oauth.Registry,
	identity *application.IdentityService,
	sessions *application.SessionService,
	audit repo.AuditRepository,
	notifier LoginNotifier,
	jwt *helpers.JWTManager,
	cookies *helpers.Manager,
	errs *ErrorHandler,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		Providers: providers,
		Identity:  identity,
		Sessions:  sessions,
		Audit:     audit,
		Notifier:  notifier,
		JWT:       jwt,
		Cookies:   cookies,
		Errors:    errs,
		Logger:    logger,
	}
}

type callbackQuery struct {
	Code             string `form:"code" binding:"omitempty,oauthparam"`
	State            string `form:"state" binding:"omitempty,oauthparam"`
	Error            string `form:"error" binding:"omitempty,max=256"`
	ErrorDescription string `form:"error_description" binding:"omitempty,max=1024"`
}

// Login GET /auth/login/<provider>
// Stores a fresh state in the session and redirects to the provider.
func (h *AuthHandler) Login(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := h.Providers.Get(provider)
		if !ok {
			h.Errors.NotFound(c)
			return
		}

		sid := middleware.SessionID(c)
		newSID, state, err := h.Sessions.BeginHandshake(c.Request.Context(), sid, p.Name())
		if err != nil {
			h.Errors.Fail(c, err)
			return
		}
		if newSID != sid {
			if err := h.setSessionCookie(c, newSID); err != nil {
				h.Errors.Fail(c, err)
				return
			}
		}
		c.Redirect(http.StatusFound, p.AuthCodeURL(state))
	}
}

// Return GET /auth/<provider>/return
func (h *AuthHandler) Return(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := h.Providers.Get(provider)
		if !ok {
			h.Errors.NotFound(c)
			return
		}
		ctx := c.Request.Context()
		sid := middleware.SessionID(c)

		var q callbackQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			h.loginFailed(c, p.Name(), "bad_callback", err)
			return
		}
		if q.Error != "" {
			h.loginFailed(c, p.Name(), "denied", errors.New(q.Error+": "+q.ErrorDescription))
			return
		}
		if q.Code == "" {
			h.loginFailed(c, p.Name(), "missing_code", nil)
			return
		}
		if err := h.Sessions.ConsumeState(ctx, sid, p.Name(), q.State); err != nil {
			if errors.Is(err, application.ErrStateMismatch) {
				h.loginFailed(c, p.Name(), "state_mismatch", err)
				return
			}
			h.Errors.Fail(c, err)
			return
		}

		profile, err := p.FetchProfile(ctx, q.Code)
		if err != nil {
			authEvents.Add(p.Name()+"_error", 1)
			h.audit(c, entity.AuditLog{Action: entity.AuditLoginFailure, Provider: p.Name(), Metadata: map[string]any{"reason": "profile_fetch"}})
			h.Errors.Fail(c, err)
			return
		}

		u, err := h.Identity.ResolveOrCreateUser(ctx, profile)
		switch {
		case errors.Is(err, application.ErrPrivacyRestricted):
			h.loginFailed(c, p.Name(), "privacy_restricted", err)
			return
		case err != nil:
			authEvents.Add(p.Name()+"_error", 1)
			h.Errors.Fail(c, err)
			return
		}

		newSID, err := h.Sessions.Login(ctx, sid, u)
		if err != nil {
			h.Errors.Fail(c, err)
			return
		}
		if err := h.setSessionCookie(c, newSID); err != nil {
			h.Errors.Fail(c, err)
			return
		}

		authEvents.Add(p.Name()+"_success", 1)
		h.audit(c, entity.AuditLog{
			UserID:   u.ID,
			Email:    u.Email,
			Action:   entity.AuditLoginSuccess,
			Provider: p.Name(),
			Metadata: map[string]any{"provider_user_id": profile.ProviderUserID},
		})
		h.notify(c, p.Name(), u)
		helpers.LogInfo(h.Logger, "user signed in", logrus.Fields{"user_id": u.ID, "provider": p.Name()})

		c.Redirect(http.StatusFound, pathProfile)
	}
}

// Logout GET /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := middleware.SessionID(c)
	u := middleware.CurrentUser(c)

	uid, err := h.Sessions.Logout(c.Request.Context(), sid)
	if err != nil {
		h.Errors.Fail(c, err)
		return
	}
	if uid != "" {
		authEvents.Add("logout", 1)
		l := entity.AuditLog{UserID: uid, Action: entity.AuditLogout}
		if u != nil {
			l.Email = u.Email
		}
		h.audit(c, l)
	}
	c.Redirect(http.StatusFound, pathHome)
}

func (h *AuthHandler) loginFailed(c *gin.Context, provider, reason string, err error) {
	authEvents.Add(provider+"_failure", 1)
	fields := helpers.RequestFields(c)
	fields["provider"] = provider
	fields["reason"] = reason
	if h.Logger != nil {
		h.Logger.WithFields(fields).WithError(err).Info("sign-in not completed")
	}
	h.audit(c, entity.AuditLog{Action: entity.AuditLoginFailure, Provider: provider, Metadata: map[string]any{"reason": reason}})
	c.Redirect(http.StatusFound, pathHome)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sid string) error {
	token, exp, err := h.JWT.GenerateSessionToken(sid)
	if err != nil {
		return err
	}
	h.Cookies.Set(c, token, exp)
	c.Set(middleware.CtxSessionID, sid)
	return nil
}

// audit never fails the request.
func (h *AuthHandler) audit(c *gin.Context, l entity.AuditLog) {
	if h.Audit == nil {
		return
	}
	l.IP = middleware.ClientIP(c)
	l.UserAgent = c.GetHeader("User-Agent")
	if err := h.Audit.Insert(c.Request.Context(), l); err != nil {
		helpers.LogError(h.Logger, "audit insert failed", err, logrus.Fields{"action": l.Action})
	}
}

func (h *AuthHandler) notify(c *gin.Context, provider string, u *entity.User) {
	if h.Notifier == nil {
		return
	}
	ev := mailer.LoginEvent{
		Name:      u.Name,
		Email:     u.Email,
		Provider:  provider,
		IP:        middleware.ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		At:        time.Now(),
	}
	if err := h.Notifier.NotifyLogin(c.Request.Context(), ev); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Warn("login notification not queued")
	}
}
