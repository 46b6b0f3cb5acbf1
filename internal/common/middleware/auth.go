package middleware

import (
	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/gin-gonic/gin"
)

// AuthRequired middleware checks for valid session or JWT token.
// Token issuance and validation live in the account service; this layer
// only extracts the learner identity.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check for session cookie first
		session, err := c.Cookie("session_id")
		if err == nil && session != "" {
			c.Set("learner_id", session)
			c.Next()
			return
		}

		// Check for JWT token in Authorization header
		token := c.GetHeader("Authorization")
		if token != "" {
			c.Set("learner_id", token)
			c.Next()
			return
		}

		appErr := errors.Unauthorized("missing or invalid authentication")
		c.JSON(appErr.Status, appErr)
		c.Abort()
	}
}

// OptionalAuth doesn't fail if credentials are missing, but extracts the
// identity if present.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := c.Cookie("session_id")
		if err == nil && session != "" {
			c.Set("learner_id", session)
		} else {
			token := c.GetHeader("Authorization")
			if token != "" {
				c.Set("learner_id", token)
			}
		}
		c.Next()
	}
}

// LearnerID returns the authenticated learner identity from the context.
func LearnerID(c *gin.Context) string {
	if id, exists := c.Get("learner_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
