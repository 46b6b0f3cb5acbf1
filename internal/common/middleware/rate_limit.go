package middleware

import (
	"math"

	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/common/ratelimit"
	"github.com/architect/adaptive-tutor/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit rejects requests that exceed the per-identity admission bound.
// Shared by every engine endpoint; identity comes from the auth middleware,
// falling back to the client address for unauthenticated requests.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := LearnerID(c)
		if identity == "" {
			identity = c.ClientIP()
		}

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), identity)
		if err != nil {
			// Counter-store trouble shouldn't take the product down; admit
			// and log rather than failing the request.
			logger.Warn("rate limit store unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			JSONErrorResponse(c, errors.AdmissionDenied(seconds))
			c.Abort()
			return
		}

		c.Next()
	}
}
