package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"paperpaints/logs"
)

const requestIDKey = "reqid"

// RequestID tags every request with X-Request-Id, reusing the caller's
// value when one is sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)
		c.Set(requestIDKey, id)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog writes one line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		logs.Logger.WithFields(logrus.Fields{
			"reqid":  RequestIDFrom(c),
			"method": c.Request.Method,
			"route":  route,
			"status": c.Writer.Status(),
			"dur":    time.Since(start).String(),
			"ip":     c.ClientIP(),
		}).Info("http.request")
	}
}

// RateLimit allows limit requests per window for each client IP. Rejected
// requests get 429 with the usual error body.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
		}),
	)

	return func(c *gin.Context) {
		passed := false
		limiter(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			logs.Logger.WithFields(logrus.Fields{
				"reqid": RequestIDFrom(c),
				"route": c.FullPath(),
				"ip":    c.ClientIP(),
			}).Warn("rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
