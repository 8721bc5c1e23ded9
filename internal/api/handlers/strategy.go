package handlers

import (
	"github.com/gin-gonic/gin"

	"spx-dashboard/internal/api/models"
	"spx-dashboard/internal/controller"
)

// StrategyHandler handles strategy-form submissions
type StrategyHandler struct {
	ctrl *controller.Controller
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(ctrl *controller.Controller) *StrategyHandler {
	return &StrategyHandler{ctrl: ctrl}
}

// Update handles PUT /api/v1/strategy
func (h *StrategyHandler) Update(c *gin.Context) {
	var req models.StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.ctrl.SubmitStrategy(req.Form())
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, res)
}
