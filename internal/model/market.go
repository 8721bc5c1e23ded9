package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MarketStatus string

const (
	MarketOpen   MarketStatus = "OPEN"
	MarketClosed MarketStatus = "CLOSED"
)

// MarketSnapshot is the current index quote the RSI readout is painted from.
type MarketSnapshot struct {
	Price     decimal.Decimal `yaml:"price" json:"price"`
	RSI       float64         `yaml:"rsi" json:"rsi"`
	Timestamp time.Time       `yaml:"timestamp" json:"timestamp"`
	Status    MarketStatus    `yaml:"status" json:"status"`
}

// RSIPoint is one day of the historical RSI series. Series are ordered by
// date ascending.
type RSIPoint struct {
	Date  Date            `yaml:"date" json:"date"`
	RSI   float64         `yaml:"rsi" json:"rsi"`
	Price decimal.Decimal `yaml:"price" json:"price"`
}

// ClampRSI bounds v to [0, 100].
func ClampRSI(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
