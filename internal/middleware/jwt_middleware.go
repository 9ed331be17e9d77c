package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/amazighishop/shop_api/internal/auth"
	"github.com/amazighishop/shop_api/internal/i18n"
	"github.com/amazighishop/shop_api/internal/models"
	"github.com/amazighishop/shop_api/internal/utils"
)

// SessionCookie holds the signed session token.
const SessionCookie = "session"

// SessionLoader resolves a session token to its user.
type SessionLoader interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// SessionMiddleware identifies the caller from the session cookie or a
// bearer token. Guests pass through with no user in the context.
type SessionMiddleware struct {
	users  SessionLoader
	secure bool
}

func NewSessionMiddleware(users SessionLoader, secureCookies bool) *SessionMiddleware {
	return &SessionMiddleware{users: users, secure: secureCookies}
}

func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := m.users.CurrentUser(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, utils.ErrInvalidToken) {
				log.Error().Err(err).Msg("Failed to load session user")
			}
			ClearSessionCookie(c, m.secure)
			c.Next()
			return
		}

		if user.IsBlocked {
			log.Warn().Int("user_id", user.ID).Msg("Blocked user session closed")
			ClearSessionCookie(c, m.secure)
			deny(c, http.StatusForbidden, &utils.ErrorInfo{
				Code:     "ACCOUNT_BLOCKED",
				Message:  i18n.T(Language(c), "auth.blocked"),
				Redirect: "/login",
				Notify:   true,
			})
			return
		}

		c.Set(keyUser, user)
		c.Set(keyCapabilities, auth.For(user.Role))
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SetSessionCookie stores token in an HTTP only cookie living ttl.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl/time.Second), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
