package daemon

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// corsMiddleware accepts exact origins, "*" and single wildcard patterns
// such as "https://*.atlanticproxy.com".
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {

	logrus.WithField("allowedOrigins", allowedOrigins).Debugln("CORS configuration")

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			for _, pattern := range allowedOrigins {
				if matchOrigin(origin, pattern) {
					return true
				}
			}
			logrus.WithField("origin", origin).Debugln("CORS origin not matched")
			return false
		},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Accept",
			"X-Requested-With",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

func matchOrigin(origin, pattern string) bool {
	if origin == "" {
		return false
	}
	if origin == pattern || pattern == "*" {
		return true
	}
	if strings.Contains(pattern, "*") {
		return matchWildcardOrigin(origin, pattern)
	}
	return false
}

// matchWildcardOrigin matches scheme://*.domain.tld patterns. The wildcard
// must stand for at least one label and the suffix must start with a dot, so
// "https://*example.com" never matches "https://evilexample.com".
func matchWildcardOrigin(origin, pattern string) bool {
	parts := strings.SplitN(pattern, "*", 2)
	if len(parts) != 2 {
		return false
	}

	prefix, suffix := parts[0], parts[1]

	if !strings.HasPrefix(suffix, ".") {
		return false
	}
	if !strings.HasPrefix(origin, prefix) || !strings.HasSuffix(origin, suffix) {
		return false
	}
	if len(origin) <= len(prefix)+len(suffix) {
		return false
	}

	return true
}

func (s *Server) requestCounterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		atomic.AddInt64(&s.totalRequests, 1)
		c.Next()
	}
}

// requestIDMiddleware reuses the caller's X-Request-ID or mints one, and
// echoes it on the response.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()
	}
}

// requestLogger tags log entries with the request ID.
func requestLogger(c *gin.Context) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		requestIDKey: c.GetString(requestIDKey),
		"path":       c.Request.URL.Path,
	})
}
