package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/starpathlabs/constellation-backend/internal/auth"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/ctxutil"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService *auth.Service
	userLoader  UserLoader
}

// UserLoader backs the legacy userId-cookie fallback.
type UserLoader interface {
	LoadUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

func NewAuthMiddleware(baseLog *logger.Logger, authService *auth.Service, userLoader UserLoader) *AuthMiddleware {
	return &AuthMiddleware{
		log:         baseLog.With("middleware", "AuthMiddleware"),
		authService: authService,
		userLoader:  userLoader,
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, tokenString := am.resolveUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid credentials", "code": "unauthorized"},
			})
			return
		}
		rd := &ctxutil.RequestData{
			UserID:      user.ID,
			TokenString: tokenString,
			IsAdmin:     user.Role == types.RoleAdmin,
			IsTestUser:  user.IsTestUser,
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// RequireAdmin assumes RequireAuth already ran.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || !rd.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "admin access required", "code": "forbidden"},
			})
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) resolveUser(c *gin.Context) (*types.User, string) {
	if tokenString := extractToken(c); tokenString != "" {
		user, err := am.authService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("token auth failed", "error", err.Error())
			return nil, ""
		}
		return user, tokenString
	}

	// Legacy fallback carried over from the pre-JWT client: a bare userId
	// cookie. Off unless explicitly enabled; intended for local demos only.
	if userIDCookieEnabled() && am.userLoader != nil {
		if raw, err := c.Cookie("userId"); err == nil {
			if userID, perr := uuid.Parse(strings.TrimSpace(raw)); perr == nil {
				user, lerr := am.userLoader.LoadUser(c.Request.Context(), userID)
				if lerr == nil && user != nil {
					am.log.Warn("userId cookie fallback used", "user_id", userID.String())
					return user, ""
				}
			}
		}
	}
	return nil, ""
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie("session"); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	// SSE (EventSource) cannot set headers.
	if qToken := strings.TrimSpace(c.Query("token")); qToken != "" {
		return qToken
	}
	return ""
}

func userIDCookieEnabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("AUTH_USERID_COOKIE_FALLBACK")))
	return v == "1" || v == "true" || v == "yes"
}
