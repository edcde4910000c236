package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"octa-bazi-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var fromCtx string
	r.GET("/", func(c *gin.Context) {
		fromCtx, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := serve(r, http.MethodGet, "/", map[string]string{RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", fromCtx)

	w = serve(r, http.MethodGet, "/", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = serve(r, http.MethodGet, "/", map[string]string{RequestIDHeader: strings.Repeat("x", 200)})
	assert.Len(t, w.Header().Get(RequestIDHeader), 36, "oversized ids are replaced")
}

func TestRequireUser(t *testing.T) {
	r := gin.New()
	r.Use(RequireUser())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetUserIDFromGin(c))
	})

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), UserIDHeader)

	w = serve(r, http.MethodGet, "/", map[string]string{UserIDHeader: " u-1 "})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("bazi: no cycle entry") })

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error_code":"1007"`)
}

type countingLimiter struct {
	mu    sync.Mutex
	seen  map[string]int
	limit int
	err   error
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	l.limit = limit
	l.seen[key]++
	return l.seen[key] <= limit, nil
}

func TestRateLimit(t *testing.T) {
	limiter := &countingLimiter{seen: map[string]int{}}
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{Enabled: true, RequestsPerSecond: 2, Burst: 3, KeyPrefix: "octa:bazi"}, limiter))
	r.GET("/v1/bazi/narratives/:day_pillar/:label", func(c *gin.Context) { c.Status(http.StatusOK) })

	headers := map[string]string{UserIDHeader: "u-1"}
	for i := 0; i < 3; i++ {
		w := serve(r, http.MethodGet, "/v1/bazi/narratives/a/b", headers)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(r, http.MethodGet, "/v1/bazi/narratives/c/d", headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "keys use the route template")
	assert.Equal(t, 3, limiter.limit)
	assert.Contains(t, limiter.seen, "octa:bazi:ratelimit:u-1:/v1/bazi/narratives/:day_pillar/:label")

	w = serve(r, http.MethodGet, "/v1/bazi/narratives/a/b", map[string]string{UserIDHeader: "u-2"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &countingLimiter{seen: map[string]int{}, err: errors.New("redis down")}
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{Enabled: true, RequestsPerSecond: 1}, limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	limiter := &countingLimiter{seen: map[string]int{}}
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{Enabled: false}, limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", nil).Code)
	assert.Empty(t, limiter.seen)
}

func TestCORSWildcardDisablesCredentials(t *testing.T) {
	r := gin.New()
	r.Use(CORS(CORSConfig{}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", map[string]string{"Origin": "https://app.example.org"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}
