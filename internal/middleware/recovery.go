package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sajjaddev-web/desk/pkg/logger"
)

// Recovery converts panics into a 500 response and logs the error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithModule("http").Error("panic",
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", r),
				)
				// Never leak internals to clients.
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": true,
					"data": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Service error",
					},
				})
			}
		}()
		c.Next()
	}
}
