package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fms-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		coachID, _ := c.Get(coachIDKey)
		studentID, _ := c.Get("studentId")
		sagaStage := ""
		if raw, ok := c.Get("sagaStage"); ok {
			if s, ok := raw.(string); ok {
				sagaStage = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"saga_stage":  sagaStage,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"coach_id":    coachID,
			"student_id":  studentID,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
