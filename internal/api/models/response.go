package models

import (
	"time"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/chart"
	"spx-dashboard/internal/controller"
	"spx-dashboard/internal/model"
	"spx-dashboard/internal/notify"
	"spx-dashboard/internal/state"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// InteractionResponse answers every form submission and modal action.
type InteractionResponse struct {
	Changed      bool              `json:"changed"`
	Version      uint64            `json:"version"`
	Panels       map[string]string `json:"panels,omitempty"`
	Chart        *chart.Config     `json:"chart,omitempty"`
	Notification *notify.Event     `json:"notification,omitempty"`
}

func NewInteractionResponse(r controller.Result) InteractionResponse {
	return InteractionResponse{
		Changed:      r.Changed,
		Version:      r.State.Version,
		Panels:       r.Panels,
		Chart:        r.Chart,
		Notification: r.Event,
	}
}

// PositionResponse is a position plus its spread metrics.
type PositionResponse struct {
	model.Position
	Metrics analysis.SpreadMetrics `json:"metrics"`
}

func NewPositionResponse(p model.Position, profitTarget float64) PositionResponse {
	return PositionResponse{
		Position: p,
		Metrics:  analysis.CalculateSpreadMetrics(p.ShortStrike, p.LongStrike, p.EntryCredit, profitTarget),
	}
}

type PositionsResponse struct {
	Positions []PositionResponse `json:"positions"`
	Open      int                `json:"open"`
}

// DashboardResponse is the JSON snapshot of the state container.
type DashboardResponse struct {
	Version           uint64                   `json:"version"`
	GeneratedAt       time.Time                `json:"generated_at"`
	Market            model.MarketSnapshot     `json:"market"`
	MarketOpen        bool                     `json:"market_open"`
	Signal            string                   `json:"signal"`
	ThresholdDistance float64                  `json:"threshold_distance"`
	History           []model.RSIPoint         `json:"historical_rsi"`
	Positions         []PositionResponse       `json:"positions"`
	Performance       model.PerformanceSummary `json:"performance"`
	PerformanceSource string                   `json:"performance_source"`
	StoredPerformance model.PerformanceSummary `json:"stored_performance"`
	Signals           []model.SignalEvent      `json:"signals"`
	Platforms         []model.Platform         `json:"platforms"`
	StrategyParams    model.StrategyParams     `json:"strategy_params"`
	RiskInputs        analysis.RiskInputs      `json:"risk_inputs"`
	Risk              analysis.RiskResult      `json:"risk"`
	RiskSpreadWidth   string                   `json:"risk_spread_width"`
	Modal             state.Modal              `json:"modal"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
