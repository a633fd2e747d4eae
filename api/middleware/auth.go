package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jayakrishna0023/fleet-guardian/internal/auth"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	UserIDKey           = "user_id"
	UsernameKey         = "username"
)

// JWTAuth accepts a bearer token, or the login cookie when cookieName is set
// and no Authorization header was sent.
func JWTAuth(authService *auth.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c, cookieName)
		if !ok {
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)

		c.Next()
	}
}

func bearerToken(c *gin.Context, cookieName string) (string, bool) {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		if cookieName != "" {
			if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
				return cookie, true
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing authorization header",
		})
		return "", false
	}

	if !strings.HasPrefix(header, BearerPrefix) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid authorization header format",
		})
		return "", false
	}

	return strings.TrimPrefix(header, BearerPrefix), true
}

func GetUserID(c *gin.Context) int {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

func GetUsername(c *gin.Context) string {
	if v, ok := c.Get(UsernameKey); ok {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
