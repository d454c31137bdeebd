package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imgworks/flux-kontext-api/pkg/api"
	"go.uber.org/zap"
)

// ErrorHandler renders errors attached by handlers into the API's JSON error
// shapes.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			if apiErr.Log != nil {
				logger.Error("request failed", zap.Int("code", apiErr.Code), zap.Error(apiErr.Log))
			}

			body := gin.H{"error": apiErr.Message}
			if len(apiErr.Fields) > 0 {
				body["errors"] = apiErr.Fields
			}
			c.JSON(apiErr.Code, body)
			c.Abort()
			return
		}

		// Unknown error: catch-all 500 in the standard shape.
		logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": err.Error(),
		})
		c.Abort()
	}
}
