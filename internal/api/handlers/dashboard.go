package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/api/models"
	"spx-dashboard/internal/controller"
	"spx-dashboard/internal/model"
	"spx-dashboard/internal/view"
)

// DashboardHandler serves the page, panel fragments and read-only
// snapshots of the dashboard state.
type DashboardHandler struct {
	ctrl *controller.Controller
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(ctrl *controller.Controller) *DashboardHandler {
	return &DashboardHandler{ctrl: ctrl}
}

// Page handles GET /
func (h *DashboardHandler) Page(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.ctrl.Renderer().Page(&buf, h.ctrl.Dashboard()); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Panel handles GET /api/v1/panels/:panel
func (h *DashboardHandler) Panel(c *gin.Context) {
	p, ok := view.ParsePanel(c.Param("panel"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND", "Unknown panel", map[string]interface{}{
			"panel":     c.Param("panel"),
			"available": view.Panels,
		})
		return
	}
	html, err := h.ctrl.Renderer().PanelHTML(p, h.ctrl.Dashboard())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Chart handles GET /api/v1/chart
func (h *DashboardHandler) Chart(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.Chart().Config())
}

// Snapshot handles GET /api/v1/dashboard
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	st := h.ctrl.Store().Get()
	opts := h.ctrl.Options()
	now := h.ctrl.Now()

	perfSource := opts.Performance
	if !perfSource.Valid() {
		perfSource = analysis.PerformanceFixture
	}
	widthSource := opts.RiskWidth
	if !widthSource.Valid() {
		widthSource = analysis.WidthFixed
	}

	c.JSON(http.StatusOK, models.DashboardResponse{
		Version:           st.Version,
		GeneratedAt:       now,
		Market:            st.Market,
		MarketOpen:        opts.Hours.IsOpen(now),
		Signal:            string(st.Signal()),
		ThresholdDistance: analysis.ThresholdDistance(st.Market.RSI, st.Params.RSIThreshold),
		History:           st.History,
		Positions:         positionResponses(st.Positions, st.Params.ProfitTarget),
		Performance:       perfSource.Select(st.Performance, st.Positions, now),
		PerformanceSource: string(perfSource),
		StoredPerformance: st.Performance,
		Signals:           st.Signals,
		Platforms:         st.Platforms,
		StrategyParams:    st.Params,
		RiskInputs:        st.Risk,
		Risk:              analysis.CalculateRisk(st.Risk, st.Positions, widthSource.Width(st.Params)),
		RiskSpreadWidth:   widthSource.Width(st.Params).String(),
		Modal:             st.Modal,
	})
}

func positionResponses(positions []model.Position, profitTarget float64) []models.PositionResponse {
	out := make([]models.PositionResponse, len(positions))
	for i, p := range positions {
		out[i] = models.NewPositionResponse(p, profitTarget)
	}
	return out
}
