package analysis

import (
	"spx-dashboard/internal/model"

	"github.com/shopspring/decimal"
)

// FixedRiskSpreadWidth is the strike width the portfolio risk figure assumes
// for every open position, independent of StrategyParams.SpreadWidth.
var FixedRiskSpreadWidth = decimal.NewFromInt(10)

var hundred = decimal.NewFromInt(100)

// RiskInputs are the two risk calculator fields.
type RiskInputs struct {
	AccountBalance decimal.Decimal `json:"account_balance"`
	RiskPercent    decimal.Decimal `json:"risk_percent"`
}

type RiskResult struct {
	MaxRisk       decimal.Decimal `json:"max_risk"`
	PortfolioRisk decimal.Decimal `json:"portfolio_risk"`
}

// MaxRisk is balance × percent / 100.
func MaxRisk(in RiskInputs) decimal.Decimal {
	return in.AccountBalance.Mul(in.RiskPercent).Div(hundred)
}

// PortfolioRisk sums quantity × width × 100 over OPEN positions.
func PortfolioRisk(positions []model.Position, width decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		if !p.IsOpen() {
			continue
		}
		total = total.Add(decimal.NewFromInt(int64(p.Quantity)).Mul(width).Mul(multiplier))
	}
	return total
}

func CalculateRisk(in RiskInputs, positions []model.Position, width decimal.Decimal) RiskResult {
	return RiskResult{
		MaxRisk:       MaxRisk(in),
		PortfolioRisk: PortfolioRisk(positions, width),
	}
}

// WidthSource selects the strike width PortfolioRisk assumes.
type WidthSource string

const (
	// WidthFixed uses FixedRiskSpreadWidth regardless of the strategy.
	WidthFixed WidthSource = "fixed"
	// WidthParams uses StrategyParams.SpreadWidth.
	WidthParams WidthSource = "params"
)

func (w WidthSource) Valid() bool {
	return w == WidthFixed || w == WidthParams
}

// Width resolves the width for p. A non-positive configured width falls
// back to the fixed one.
func (w WidthSource) Width(p model.StrategyParams) decimal.Decimal {
	if w == WidthParams && p.SpreadWidth.IsPositive() {
		return p.SpreadWidth
	}
	return FixedRiskSpreadWidth
}
