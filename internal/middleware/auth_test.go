package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"filebox/internal/domain/sessions"
)

type stubResolver struct {
	tokens map[string]int64
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (int64, error) {
	id, ok := s.tokens[token]
	if !ok {
		return 0, sessions.ErrUnauthorized
	}
	return id, nil
}

func setupRouter(resolver TokenResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", Auth(resolver), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("user_id")})
	})
	r.GET("/maybe", OptionalAuth(resolver), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("user_id")})
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	r := setupRouter(&stubResolver{tokens: map[string]int64{"tok": 42}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("X-Token", "tok")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestAuth_MissingOrUnknownToken(t *testing.T) {
	r := setupRouter(&stubResolver{tokens: map[string]int64{}})

	for _, token := range []string{"", "bogus"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if token != "" {
			req.Header.Set("X-Token", token)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestOptionalAuth_AnonymousPasses(t *testing.T) {
	r := setupRouter(&stubResolver{tokens: map[string]int64{"tok": 42}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/maybe", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("X-Token", "tok")
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}
