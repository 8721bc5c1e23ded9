package analysis

import (
	"time"

	"spx-dashboard/internal/model"

	"github.com/shopspring/decimal"
)

// EstimatedValueRatio is the fixed fraction of the entry credit a freshly
// added spread is marked at. It is a display estimate, not a pricing model.
var EstimatedValueRatio = decimal.NewFromFloat(0.5)

var multiplier = decimal.NewFromInt(model.OptionMultiplier)

// EstimateCurrentValue is entryCredit × 0.5.
func EstimateCurrentValue(entryCredit decimal.Decimal) decimal.Decimal {
	return entryCredit.Mul(EstimatedValueRatio)
}

// EstimatePnL is entryCredit × quantity × 100 × 0.5.
func EstimatePnL(entryCredit decimal.Decimal, quantity int) decimal.Decimal {
	return entryCredit.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(multiplier).
		Mul(EstimatedValueRatio)
}

// NewOpenPosition fills in the derived fields of a spread entered by hand.
func NewOpenPosition(id int64, entry model.Date, short, long decimal.Decimal, expiry model.Date, quantity int, credit decimal.Decimal, now time.Time) model.Position {
	return model.Position{
		ID:           id,
		EntryDate:    entry,
		ShortStrike:  short,
		LongStrike:   long,
		Expiry:       expiry,
		Quantity:     quantity,
		EntryCredit:  credit,
		CurrentValue: EstimateCurrentValue(credit),
		PnL:          EstimatePnL(credit, quantity),
		Status:       model.StatusOpen,
		DaysToExpiry: expiry.DaysUntil(now),
	}
}

// SpreadMetrics summarises the payoff of one contract of a spread.
type SpreadMetrics struct {
	Width            decimal.Decimal `json:"width"`
	MaxRiskPerSpread decimal.Decimal `json:"max_risk_per_spread"`
	ProfitTargetExit decimal.Decimal `json:"profit_target_exit"`
	RewardRisk       decimal.Decimal `json:"reward_risk"`
}

// CalculateSpreadMetrics computes width, max loss (width − credit), the buy
// back price that realises profitTargetPct of the credit, and credit/max risk.
func CalculateSpreadMetrics(short, long, credit decimal.Decimal, profitTargetPct float64) SpreadMetrics {
	width := short.Sub(long)
	maxRisk := width.Sub(credit)
	target := decimal.NewFromFloat(profitTargetPct).Div(decimal.NewFromInt(100))
	exit := credit.Mul(decimal.NewFromInt(1).Sub(target))

	rr := decimal.Zero
	if maxRisk.IsPositive() {
		rr = credit.DivRound(maxRisk, 4)
	}
	return SpreadMetrics{
		Width:            width,
		MaxRiskPerSpread: maxRisk,
		ProfitTargetExit: exit,
		RewardRisk:       rr,
	}
}
