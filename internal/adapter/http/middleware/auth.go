package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
	"crystalos/pkg/apierrors"
)

const (
	apiKeyHeader     = "apikey"
	accessTokenQuery = "access_token"
	bearerPrefix     = "Bearer "

	tokenKey     = "session_token"
	sessionKey   = "session"
	dashboardKey = "dashboard"
)

// APIKeyMiddleware requires the gateway anon key on the apikey header or
// query parameter. An empty key disables the check.
func APIKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		provided := c.GetHeader(apiKeyHeader)
		if provided == "" {
			provided = c.Query(apiKeyHeader)
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgInvalidAPIKey, GetLang(c)),
			)
			return
		}
		c.Next()
	}
}

// SessionMiddleware resolves the bearer token to its session and dashboard.
// Browsers cannot set headers on websocket upgrades, so the token is also
// accepted as the access_token query parameter.
func SessionMiddleware(sessions ports.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := GetLang(c)

		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgSessionRequired, lang),
			)
			return
		}

		session, dashboard, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrSessionExpired):
				c.AbortWithStatusJSON(
					http.StatusUnauthorized,
					apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgSessionExpired, lang),
				)
			case errors.Is(err, domain.ErrSessionNotFound):
				c.AbortWithStatusJSON(
					http.StatusUnauthorized,
					apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgSessionRequired, lang),
				)
			default:
				zap.L().Error("failed to resolve session", zap.Error(err))
				c.AbortWithStatusJSON(
					http.StatusInternalServerError,
					apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailResolveSession, lang),
				)
			}
			return
		}

		c.Set(tokenKey, token)
		c.Set(sessionKey, session)
		c.Set(dashboardKey, dashboard)
		c.Next()
	}
}

// BearerToken reads the access token from the request, header first.
func BearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return strings.TrimSpace(c.Query(accessTokenQuery))
}

func GetToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func GetSession(c *gin.Context) (domain.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return domain.Session{}, false
	}
	session, ok := value.(domain.Session)
	return session, ok
}

func GetDashboard(c *gin.Context) (ports.Dashboard, bool) {
	value, exists := c.Get(dashboardKey)
	if !exists {
		return nil, false
	}
	dashboard, ok := value.(ports.Dashboard)
	return dashboard, ok && dashboard != nil
}
