package handlers

import (
	"github.com/gin-gonic/gin"

	"spx-dashboard/internal/api/models"
	"spx-dashboard/internal/controller"
)

// ModalHandler drives the add-position dialog
type ModalHandler struct {
	ctrl *controller.Controller
}

// NewModalHandler creates a new modal handler
func NewModalHandler(ctrl *controller.Controller) *ModalHandler {
	return &ModalHandler{ctrl: ctrl}
}

// Open handles POST /api/v1/modal/open
func (h *ModalHandler) Open(c *gin.Context) {
	res, err := h.ctrl.OpenModal()
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, res)
}

// Close handles POST /api/v1/modal/close
func (h *ModalHandler) Close(c *gin.Context) {
	var req models.ModalCloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.ctrl.CloseModal(controller.CloseTrigger(req.Trigger), req.Target)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, res)
}
