package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	contextKeyUserID = "user_id"
	contextKeyToken  = "token"
)

// UserIDFromContext returns the current user ID set by RequireBearer. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// TokenFromContext returns the bearer token accepted by RequireBearer.
func TokenFromContext(c *gin.Context) string {
	return c.GetString(contextKeyToken)
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireBearer returns a middleware that resolves the bearer token and sets
// the current user ID in context. If missing or invalid, responds with 401;
// if the token store fails, with 503.
func RequireBearer(tokens TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c)
			return
		}
		userID, err := tokens.GetUserID(c.Request.Context(), token)
		if errors.Is(err, ErrInvalidToken) {
			unauthorized(c)
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "Authentication service unavailable"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Set(contextKeyToken, token)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
}
