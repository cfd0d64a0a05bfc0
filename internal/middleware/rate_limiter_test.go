package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(LimiterConfig{RPS: 1, Burst: 2, IdleTTL: time.Minute})
	t.Cleanup(rl.Close)
	r := gin.New()
	r.GET("/login", rl.Middleware(ClientIPKey), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterPerKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(LimiterConfig{RPS: 1, Burst: 1, IdleTTL: time.Minute})
	t.Cleanup(rl.Close)
	r := gin.New()
	r.GET("/login", rl.Middleware(func(c *gin.Context) string {
		return c.GetHeader("X-Client")
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.Header.Set("X-Client", client)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))

	// A different key gets its own bucket.
	assert.Equal(t, http.StatusOK, send("bob"))
}

func TestRateLimiterClose(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(LimiterConfig{RPS: 1, Burst: 1, IdleTTL: 10 * time.Millisecond})
	rl.Close()

	// The sweeper is gone but the buckets keep limiting.
	r := gin.New()
	r.GET("/login", rl.Middleware(ClientIPKey), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
