package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/ranwtech/site/pkg/metrics"
	"github.com/stretchr/testify/require"
)

func serve(r *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	r := gin.New()
	r.Use(RateLimitMiddleware("under", 10, 2))
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "/ok"))
	require.Equal(t, http.StatusOK, serve(r, "/ok"))

	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware("exceeded", 2, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "/limited"))
	require.Equal(t, http.StatusTooManyRequests, serve(r, "/limited"))

	// one token is back after 500ms
	time.Sleep(600 * time.Millisecond)
	require.Equal(t, http.StatusOK, serve(r, "/limited"))
}

func TestRateLimitMiddleware_ScopesAreIndependent(t *testing.T) {
	r := gin.New()
	r.GET("/leads", RateLimitMiddleware("scope-leads", 0.01, 1), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/articles", RateLimitMiddleware("scope-articles", 0.01, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, serve(r, "/leads"))
	require.Equal(t, http.StatusTooManyRequests, serve(r, "/leads"))
	require.Equal(t, http.StatusOK, serve(r, "/articles"))
}

func TestRateLimitMiddleware_UsesSubjectWhenPresent(t *testing.T) {
	sub := "user-123"
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("claims", map[string]interface{}{"sub": sub})
		c.Next()
	})
	r.Use(RateLimitMiddleware("subject", 0.01, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "/u"))
	require.Equal(t, http.StatusTooManyRequests, serve(r, "/u"))

	// another subject from the same IP has its own bucket
	sub = "user-456"
	require.Equal(t, http.StatusOK, serve(r, "/u"))
}
