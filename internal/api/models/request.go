package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"spx-dashboard/internal/controller"
)

// FormValue is a form field as typed by the user. It accepts a JSON string,
// number or null so API clients may send either.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("form value must be a string or number: %w", err)
	}
	*v = FormValue(n.String())
	return nil
}

// StrategyRequest is the body of PUT /api/v1/strategy.
type StrategyRequest struct {
	RSIThreshold FormValue `json:"rsi_threshold"`
	DaysToExpiry FormValue `json:"days_to_expiry"`
	ProfitTarget FormValue `json:"profit_target"`
	PositionSize FormValue `json:"position_size"`
	MaxPositions FormValue `json:"max_positions"`
}

func (r StrategyRequest) Form() controller.StrategyForm {
	return controller.StrategyForm{
		RSIThreshold: string(r.RSIThreshold),
		DaysToExpiry: string(r.DaysToExpiry),
		ProfitTarget: string(r.ProfitTarget),
		PositionSize: string(r.PositionSize),
		MaxPositions: string(r.MaxPositions),
	}
}

// PositionRequest is the body of POST /api/v1/positions.
type PositionRequest struct {
	EntryDate   FormValue `json:"entry_date"`
	ShortStrike FormValue `json:"short_strike"`
	LongStrike  FormValue `json:"long_strike"`
	Expiry      FormValue `json:"expiry"`
	Quantity    FormValue `json:"quantity"`
	EntryCredit FormValue `json:"entry_credit"`
}

func (r PositionRequest) Form() controller.PositionForm {
	return controller.PositionForm{
		EntryDate:   string(r.EntryDate),
		ShortStrike: string(r.ShortStrike),
		LongStrike:  string(r.LongStrike),
		Expiry:      string(r.Expiry),
		Quantity:    string(r.Quantity),
		EntryCredit: string(r.EntryCredit),
	}
}

// RiskRequest is the body of POST /api/v1/risk.
type RiskRequest struct {
	AccountBalance FormValue `json:"account_balance"`
	RiskPercent    FormValue `json:"risk_percent"`
}

func (r RiskRequest) Form() controller.RiskForm {
	return controller.RiskForm{
		AccountBalance: string(r.AccountBalance),
		RiskPercent:    string(r.RiskPercent),
	}
}

// ModalCloseRequest is the body of POST /api/v1/modal/close. Target is the
// id of the element that received the click.
type ModalCloseRequest struct {
	Trigger string `json:"trigger" binding:"required,oneof=close cancel backdrop"`
	Target  string `json:"target"`
}
