package api

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs one structured line per request with slog, the way
// the rest of the service logs — gin's own default logger writes plain
// text to stdout, which the teacher's services never rely on in production.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// recoverJSON converts a panicking handler into a 500 JSON body instead of
// gin's default plaintext dump, so every error response on this API takes
// the same errorResponse shape.
func recoverJSON() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		slog.Error("panic recovered", "error", recovered, "path", c.FullPath())
		c.AbortWithStatusJSON(500, errorResponse{Error: "internal server error", Code: "internal_error"})
	})
}
