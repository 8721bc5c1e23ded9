package model

import "github.com/shopspring/decimal"

// StrategyParams drive the signal indicator and the chart threshold line.
// ProfitTarget is a percentage of the entry credit.
type StrategyParams struct {
	RSIThreshold float64         `yaml:"rsi_threshold" json:"rsi_threshold"`
	DaysToExpiry int             `yaml:"days_to_expiry" json:"days_to_expiry"`
	ProfitTarget float64         `yaml:"profit_target" json:"profit_target"`
	PositionSize int             `yaml:"position_size" json:"position_size"`
	MaxPositions int             `yaml:"max_positions" json:"max_positions"`
	SpreadWidth  decimal.Decimal `yaml:"spread_width" json:"spread_width"`
}
