package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PositionStatus is the lifecycle label of a credit spread.
// Keep these values stable; they are part of the JSON and CSV output.
type PositionStatus string

const (
	StatusOpen      PositionStatus = "OPEN"
	StatusTargetHit PositionStatus = "TARGET_HIT"
	StatusClosed    PositionStatus = "CLOSED"
	StatusExpired   PositionStatus = "EXPIRED"
)

func (s PositionStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusTargetHit, StatusClosed, StatusExpired:
		return true
	}
	return false
}

// Label is the display form: underscores become spaces.
func (s PositionStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// OptionMultiplier is the contract multiplier for index options.
const OptionMultiplier = 100

// Position is a bull put credit spread. ShortStrike > LongStrike.
type Position struct {
	ID           int64           `yaml:"id" json:"id"`
	EntryDate    Date            `yaml:"entry_date" json:"entry_date"`
	ShortStrike  decimal.Decimal `yaml:"short_strike" json:"short_strike"`
	LongStrike   decimal.Decimal `yaml:"long_strike" json:"long_strike"`
	Expiry       Date            `yaml:"expiry" json:"expiry"`
	Quantity     int             `yaml:"quantity" json:"quantity"`
	EntryCredit  decimal.Decimal `yaml:"entry_credit" json:"entry_credit"`
	CurrentValue decimal.Decimal `yaml:"current_value" json:"current_value"`
	PnL          decimal.Decimal `yaml:"pnl" json:"pnl"`
	Status       PositionStatus  `yaml:"status" json:"status"`
	DaysToExpiry int             `yaml:"dte" json:"dte"`
}

func (p Position) IsOpen() bool {
	return p.Status == StatusOpen
}
