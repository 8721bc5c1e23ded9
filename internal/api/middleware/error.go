package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"spx-dashboard/internal/api/models"
)

// ErrorHandler middleware handles panics and errors
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		logger.Error("panic recovered",
			"request_id", RequestID(c),
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
