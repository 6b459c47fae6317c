package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskvault/taskvault/internal/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code, and duration. Health-check paths are silently skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		fields := map[string]interface{}{
			"method":  c.Request.Method,
			"path":    path,
			"status":  status,
			"latency": latency.String(),
			"client":  c.ClientIP(),
		}
		if id := c.GetString("request_id"); id != "" {
			fields["request_id"] = id
		}
		if latency > 500*time.Millisecond {
			fields["slow"] = true
		}

		logByStatus(log.WithFields(fields), status)
	}
}

func isHealthEndpoint(path string) bool {
	return path == "/health"
}

// logByStatus logs the request at the appropriate level based on HTTP
// status code.
func logByStatus(log *logger.Logger, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed")
	case status >= 400:
		log.Warn("Request completed")
	default:
		log.Debug("Request completed")
	}
}
