package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/classroom/internal/actorctx"
	"github.com/geocoder89/classroom/internal/domain/user"
	"github.com/geocoder89/classroom/internal/service"
	"github.com/gin-gonic/gin"
)

// Keep these small so tests can fake them easily.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, bool, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (user.User, error)
}

type SessionMiddleware struct {
	sessions SessionResolver
	users    UserFinder
	log      *slog.Logger
}

func NewSessionMiddleware(sessions SessionResolver, users UserFinder, log *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, users: users, log: log}
}

// LoadUser attaches the current user when the cookie resolves. Any failure
// leaves the request anonymous; it never aborts.
func (m *SessionMiddleware) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		userID, ok, err := m.sessions.Resolve(ctx, raw)
		if err != nil {
			m.log.ErrorContext(ctx, "session resolve failed", "err", err)
			c.Next()
			return
		}

		if !ok {
			c.Next()
			return
		}

		u, err := m.users.FindByID(ctx, userID)
		if err != nil {
			if !errors.Is(err, service.ErrNotFound) {
				m.log.ErrorContext(ctx, "session user lookup failed", "user_id", userID, "err", err)
			}
			c.Next()
			return
		}

		c.Set(CtxUser, u)
		c.Set(CtxUserID, u.ID)
		c.Request = c.Request.WithContext(actorctx.WithUserID(ctx, u.ID))

		c.Next()
	}
}

// RequireAuth rejects anonymous requests with a redirect home.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// helpers so handlers don't need to know the magic keys.

func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
