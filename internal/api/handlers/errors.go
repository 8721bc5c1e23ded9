package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spx-dashboard/internal/api/models"
	"spx-dashboard/internal/controller"
)

func abortWithError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func badRequest(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// respondError maps controller errors onto the API error envelope.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *controller.ValidationError
	switch {
	case errors.As(err, &ve):
		abortWithError(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "One or more fields are invalid", map[string]interface{}{
			"fields": ve.Fields,
		})
	case errors.Is(err, controller.ErrModalOpen), errors.Is(err, controller.ErrModalClosed):
		abortWithError(c, http.StatusConflict, "MODAL_STATE", err.Error(), nil)
	case errors.Is(err, controller.ErrBadTrigger):
		badRequest(c, err)
	default:
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}

func respondResult(c *gin.Context, r controller.Result) {
	c.JSON(http.StatusOK, models.NewInteractionResponse(r))
}
