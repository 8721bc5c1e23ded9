package model

import "github.com/shopspring/decimal"

// PerformanceSummary is the aggregate shown on the performance tiles.
// WinRate is a percentage (91.7 means 91.7%). MaxDrawdown is <= 0.
type PerformanceSummary struct {
	TotalTrades     int             `yaml:"total_trades" json:"total_trades"`
	WinningTrades   int             `yaml:"winning_trades" json:"winning_trades"`
	WinRate         float64         `yaml:"win_rate" json:"win_rate"`
	TotalPnL        decimal.Decimal `yaml:"total_pnl" json:"total_pnl"`
	CurrentMonthPnL decimal.Decimal `yaml:"current_month_pnl" json:"current_month_pnl"`
	AvgDaysInTrade  float64         `yaml:"avg_days_in_trade" json:"avg_days_in_trade"`
	MaxDrawdown     decimal.Decimal `yaml:"max_drawdown" json:"max_drawdown"`
}
