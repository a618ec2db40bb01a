package response

import (
	"github.com/gin-gonic/gin"
)

// The API speaks a flat JSON contract: success bodies are shaped per
// endpoint and every failure is {"error": message}. Keeping the helpers
// here means no handler builds an envelope by hand.

// JSON writes a success body as-is.
func JSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Err writes the uniform error envelope.
func Err(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// AbortErr writes the error envelope and aborts the handler chain,
// for use from middleware.
func AbortErr(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
