package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isows-india/worklicense-backend/internal/i18n"
	"github.com/isows-india/worklicense-backend/internal/models"
	"github.com/isows-india/worklicense-backend/internal/utils"
)

func newLimitedRouter(rl *RateLimiter, userID string) *gin.Engine {
	r := gin.New()
	r.Use(I18nMiddleware())
	if userID != "" {
		r.Use(func(c *gin.Context) {
			utils.SetIdentity(c, &models.Identity{ID: c.GetHeader("X-Test-User")})
			c.Next()
		})
	}
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func hit(r *gin.Engine, ip, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":5000"
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("en"))

	rl := NewRateLimiter(1, 2, time.Minute)
	defer rl.Stop()
	r := newLimitedRouter(rl, "")

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1", "").Code)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1", "").Code)

	w := hit(r, "10.0.0.1", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2", "").Code)
}

func TestRateLimiterKeysAuthenticatedRequestsByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("en"))

	rl := NewRateLimiter(1, 1, time.Minute)
	defer rl.Stop()
	r := newLimitedRouter(rl, "auth")

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1", "alice").Code)
	// same user from another address shares the budget
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.9", "alice").Code)
	// another user behind the same address does not
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1", "bob").Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("en"))

	rl := NewRateLimiter(0, 1, time.Minute)
	defer rl.Stop()
	r := newLimitedRouter(rl, "")

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, hit(r, "10.0.0.1", "").Code)
	}
}
