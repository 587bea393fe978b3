package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"vidstream/internal/pkg/response"
)

// RequestLogger logs one line per request and recovers from panics.
// Panic details stay in the logs; the client only sees the envelope.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("panic recovered",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"panic", recovered,
					"stack", string(debug.Stack()),
				)
				response.Error(c, http.StatusInternalServerError, "Something went wrong")
				c.Abort()
				return
			}

			level := slog.LevelInfo
			if c.Writer.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.Log(c.Request.Context(), level, "request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", c.Writer.Status(),
				"client_ip", c.ClientIP(),
				"user_id", c.GetInt64("user_id"),
				"latency", time.Since(start).String(),
			)
		}()

		c.Next()
	}
}
