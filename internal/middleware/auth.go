package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"filebox/internal/domain/sessions"
	"filebox/internal/pkg/response"
)

// TokenResolver maps a session token to a principal id.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// Auth requires a valid X-Token session and stores the principal id in the
// context as "user_id". Missing, unknown and expired tokens all look the
// same to the caller.
func Auth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Token")
		if token == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, sessions.ErrUnauthorized) {
				abortUnauthorized(c)
				return
			}
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth resolves X-Token when present but never rejects: routes like
// content retrieval serve public files to anonymous callers.
func OptionalAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader("X-Token"); token != "" {
			if userID, err := resolver.Resolve(c.Request.Context(), token); err == nil {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
	c.Abort()
}
