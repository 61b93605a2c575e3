package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newLimitedRouter(r rate.Limit, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.POST("/x", RateLimit(r, burst), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return e
}

func TestRateLimit_BurstThenRejects(t *testing.T) {
	e := newLimitedRouter(rate.Limit(0), 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		e.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_BucketsArePerIP(t *testing.T) {
	e := newLimitedRouter(rate.Limit(0), 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
