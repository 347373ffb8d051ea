package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// PolicyHeaderName is the header attached to every response.
	PolicyHeaderName = "X-Policy-Mitigation"
	// PolicyHeaderValue is a placeholder, not a real security control.
	PolicyHeaderValue = "placeholder"
)

// PolicyHeader attaches the policy-mitigation header to every response.
func PolicyHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set(PolicyHeaderName, PolicyHeaderValue)
		c.Next()
	}
}
