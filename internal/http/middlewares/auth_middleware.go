package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/auth"
)

// TokenVerifier is the slice of auth.Provider the middleware needs. Kept
// small so tests can fake it easily.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (auth.Identity, error)
}

type AuthMiddleware struct {
	provider TokenVerifier
}

func NewAuthMiddleware(provider TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{provider: provider}
}

// RequireAuth resolves the bearer token before the handler runs; a request
// without a valid token never reaches storage.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		identity, err := m.provider.VerifyToken(c.Request.Context(), raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		// Stash useful bits of identity on the context
		c.Set(ctxUserIDKey, identity.UserID)
		c.Set(ctxEmailKey, identity.Email)
		c.Set(ctxUsernameKey, identity.Username)

		c.Next()
	}
}

// RequireAnonKey gates the unauthenticated endpoints (signup, login) behind
// the publishable anon key.
func RequireAnonKey(anonKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) != anonKey {
			abortUnauthorized(c, "Missing or invalid anon key")
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func UsernameFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUsernameKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
