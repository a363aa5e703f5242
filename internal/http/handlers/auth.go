package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/classroom/internal/config"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/http/middlewares"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/geocoder89/classroom/internal/service"
	"github.com/gin-gonic/gin"
)

// one message for unknown email and wrong password, no account enumeration
const invalidLoginMessage = "Invalid email or password."

type Authenticator interface {
	Register(ctx context.Context, in service.RegisterInput) (user.User, error)
	Authenticate(ctx context.Context, email, password string) (user.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

type AuthHandler struct {
	users    Authenticator
	sessions SessionStore
	pages    *Pages
	prom     *observability.Prom
	log      *slog.Logger
	cfg      config.Config
}

func NewAuthHandler(users Authenticator, sessions SessionStore, pages *Pages, prom *observability.Prom, log *slog.Logger, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		pages:    pages,
		prom:     prom,
		log:      log,
		cfg:      cfg,
	}
}

type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type RegisterRequest struct {
	Email    string `form:"email"`
	Name     string `form:"name"`
	Password string `form:"password"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := BindForm(ctx, &req); err != nil {
		h.pages.Home(ctx, http.StatusOK, formMessage(err))
		return
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	u, err := h.users.Authenticate(cctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			h.prom.Auth("login", "rejected")
			h.log.InfoContext(cctx, "login rejected", "email", req.Email, "reason", err.Error())
			h.pages.Home(ctx, http.StatusOK, invalidLoginMessage)
			return
		}

		h.prom.Auth("login", "error")
		h.log.ErrorContext(cctx, "login failed", "err", err)
		h.pages.Internal(ctx, "Could not log you in.")
		return
	}

	h.prom.Auth("login", "ok")
	h.startSession(ctx, cctx, u)
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := BindForm(ctx, &req); err != nil {
		h.pages.Home(ctx, http.StatusOK, formMessage(err))
		return
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	u, err := h.users.Register(cctx, service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})

	if err != nil {
		var verr *service.ValidationError

		switch {
		case errors.As(err, &verr):
			h.prom.Auth("register", "invalid")
			h.pages.Home(ctx, http.StatusOK, formMessage(err))
		case errors.Is(err, service.ErrDuplicate):
			h.prom.Auth("register", "duplicate")
			h.pages.Home(ctx, http.StatusOK, "Email is already in use.")
		default:
			h.prom.Auth("register", "error")
			h.log.ErrorContext(cctx, "register failed", "err", err)
			h.pages.Internal(ctx, "Error registering you.")
		}
		return
	}

	h.prom.Auth("register", "ok")
	h.log.InfoContext(cctx, "user registered", "user_id", u.ID)
	h.startSession(ctx, cctx, u)
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw, err := ctx.Cookie(middlewares.SessionCookie)

	if err == nil && raw != "" {
		cctx, cancel := storeCtx(ctx)
		defer cancel()

		if err := h.sessions.Destroy(cctx, raw); err != nil {
			// the cookie is cleared anyway, the row expires on its own
			h.log.ErrorContext(cctx, "session destroy failed", "err", err)
		}
	}

	h.clearSessionCookie(ctx)
	redirectHome(ctx)
}

// Helper functions

func (h *AuthHandler) startSession(ctx *gin.Context, cctx context.Context, u user.User) {
	// drop whatever session the browser held before, no fixation
	if old, err := ctx.Cookie(middlewares.SessionCookie); err == nil && old != "" {
		if err := h.sessions.Destroy(cctx, old); err != nil {
			h.log.ErrorContext(cctx, "previous session destroy failed", "user_id", u.ID, "err", err)
		}
	}

	token, err := h.sessions.Create(cctx, u.ID)
	if err != nil {
		h.log.ErrorContext(cctx, "session create failed", "user_id", u.ID, "err", err)
		h.pages.Internal(ctx, "Could not create session.")
		return
	}

	h.setSessionCookie(ctx, token)
	redirectHome(ctx)
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookie,
		token,
		int(h.sessions.TTL().Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.SessionCookie,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
