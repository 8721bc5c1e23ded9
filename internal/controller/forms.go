package controller

import (
	"math"
	"strconv"
	"strings"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/model"

	"github.com/shopspring/decimal"
)

// StrategyForm is the raw strategy-form input, one string per field.
type StrategyForm struct {
	RSIThreshold string `json:"rsi_threshold" form:"rsi_threshold"`
	DaysToExpiry string `json:"days_to_expiry" form:"days_to_expiry"`
	ProfitTarget string `json:"profit_target" form:"profit_target"`
	PositionSize string `json:"position_size" form:"position_size"`
	MaxPositions string `json:"max_positions" form:"max_positions"`
}

// PositionForm is the raw add-position input.
type PositionForm struct {
	EntryDate   string `json:"entry_date" form:"entry_date"`
	ShortStrike string `json:"short_strike" form:"short_strike"`
	LongStrike  string `json:"long_strike" form:"long_strike"`
	Expiry      string `json:"expiry" form:"expiry"`
	Quantity    string `json:"quantity" form:"quantity"`
	EntryCredit string `json:"entry_credit" form:"entry_credit"`
}

// RiskForm is the raw risk-calculator input.
type RiskForm struct {
	AccountBalance string `json:"account_balance" form:"account_balance"`
	RiskPercent    string `json:"risk_percent" form:"risk_percent"`
}

func parseFloat(ve *ValidationError, field, raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		ve.add(field, "is required")
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		ve.add(field, "must be a number")
		return 0
	}
	return v
}

func parseInt(ve *ValidationError, field, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		ve.add(field, "is required")
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		ve.add(field, "must be a whole number")
		return 0
	}
	return v
}

func parseDecimal(ve *ValidationError, field, raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		ve.add(field, "is required")
		return decimal.Zero
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		ve.add(field, "must be a number")
		return decimal.Zero
	}
	return v
}

func parseDate(ve *ValidationError, field, raw string) model.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		ve.add(field, "is required")
		return model.Date{}
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		ve.add(field, "must be a date in YYYY-MM-DD form")
		return model.Date{}
	}
	return d
}

// ParseStrategy validates the five strategy fields. SpreadWidth is left
// zero so the current width is kept.
func ParseStrategy(f StrategyForm) (model.StrategyParams, error) {
	ve := &ValidationError{}
	p := model.StrategyParams{
		RSIThreshold: parseFloat(ve, "rsi_threshold", f.RSIThreshold),
		DaysToExpiry: parseInt(ve, "days_to_expiry", f.DaysToExpiry),
		ProfitTarget: parseFloat(ve, "profit_target", f.ProfitTarget),
		PositionSize: parseInt(ve, "position_size", f.PositionSize),
		MaxPositions: parseInt(ve, "max_positions", f.MaxPositions),
	}

	if !ve.has("rsi_threshold") && (p.RSIThreshold <= 0 || p.RSIThreshold >= 100) {
		ve.add("rsi_threshold", "must be between 0 and 100")
	}
	if !ve.has("days_to_expiry") && p.DaysToExpiry < 1 {
		ve.add("days_to_expiry", "must be at least 1")
	}
	if !ve.has("profit_target") && (p.ProfitTarget <= 0 || p.ProfitTarget >= 100) {
		ve.add("profit_target", "must be between 0 and 100")
	}
	if !ve.has("position_size") && p.PositionSize < 1 {
		ve.add("position_size", "must be at least 1")
	}
	if !ve.has("max_positions") && p.MaxPositions < 1 {
		ve.add("max_positions", "must be at least 1")
	}
	return p, ve.err()
}

// PositionInput is a validated add-position submission.
type PositionInput struct {
	EntryDate   model.Date
	ShortStrike decimal.Decimal
	LongStrike  decimal.Decimal
	Expiry      model.Date
	Quantity    int
	EntryCredit decimal.Decimal
}

func ParsePosition(f PositionForm) (PositionInput, error) {
	ve := &ValidationError{}
	in := PositionInput{
		EntryDate:   parseDate(ve, "entry_date", f.EntryDate),
		ShortStrike: parseDecimal(ve, "short_strike", f.ShortStrike),
		LongStrike:  parseDecimal(ve, "long_strike", f.LongStrike),
		Expiry:      parseDate(ve, "expiry", f.Expiry),
		Quantity:    parseInt(ve, "quantity", f.Quantity),
		EntryCredit: parseDecimal(ve, "entry_credit", f.EntryCredit),
	}

	if !ve.has("short_strike") && !in.ShortStrike.IsPositive() {
		ve.add("short_strike", "must be positive")
	}
	if !ve.has("long_strike") && !in.LongStrike.IsPositive() {
		ve.add("long_strike", "must be positive")
	}
	if !ve.has("short_strike") && !ve.has("long_strike") && !in.ShortStrike.GreaterThan(in.LongStrike) {
		ve.add("long_strike", "must be below the short strike")
	}
	if !ve.has("quantity") && in.Quantity <= 0 {
		ve.add("quantity", "must be greater than 0")
	}
	if !ve.has("entry_credit") && !in.EntryCredit.IsPositive() {
		ve.add("entry_credit", "must be greater than 0")
	}
	if !ve.has("entry_date") && !ve.has("expiry") && in.Expiry.Before(in.EntryDate.Time) {
		ve.add("expiry", "must not be before the entry date")
	}
	return in, ve.err()
}

func ParseRisk(f RiskForm) (analysis.RiskInputs, error) {
	ve := &ValidationError{}
	in := analysis.RiskInputs{
		AccountBalance: parseDecimal(ve, "account_balance", f.AccountBalance),
		RiskPercent:    parseDecimal(ve, "risk_percent", f.RiskPercent),
	}
	if !ve.has("account_balance") && in.AccountBalance.IsNegative() {
		ve.add("account_balance", "must not be negative")
	}
	if !ve.has("risk_percent") && (in.RiskPercent.IsNegative() || in.RiskPercent.GreaterThan(decimal.NewFromInt(100))) {
		ve.add("risk_percent", "must be between 0 and 100")
	}
	return in, ve.err()
}
