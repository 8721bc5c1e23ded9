package handlers

import (
	"github.com/gin-gonic/gin"

	"spx-dashboard/internal/api/models"
	"spx-dashboard/internal/controller"
)

type RiskHandler struct {
	ctrl *controller.Controller
}

func NewRiskHandler(ctrl *controller.Controller) *RiskHandler {
	return &RiskHandler{ctrl: ctrl}
}

// Update handles POST /api/v1/risk
func (h *RiskHandler) Update(c *gin.Context) {
	var req models.RiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.ctrl.UpdateRisk(req.Form())
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, res)
}
