package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spx-dashboard/internal/api/models"
	"spx-dashboard/internal/controller"
)

// PositionsHandler lists and adds working positions
type PositionsHandler struct {
	ctrl *controller.Controller
}

// NewPositionsHandler creates a new positions handler
func NewPositionsHandler(ctrl *controller.Controller) *PositionsHandler {
	return &PositionsHandler{ctrl: ctrl}
}

// List handles GET /api/v1/positions
func (h *PositionsHandler) List(c *gin.Context) {
	st := h.ctrl.Store().Get()
	c.JSON(http.StatusOK, models.PositionsResponse{
		Positions: positionResponses(st.Positions, st.Params.ProfitTarget),
		Open:      st.OpenPositions(),
	})
}

// Create handles POST /api/v1/positions
func (h *PositionsHandler) Create(c *gin.Context) {
	var req models.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.ctrl.SubmitPosition(req.Form())
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, res)
}
