package view

import (
	"strconv"
	"time"

	"spx-dashboard/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	shortDateLayout = "Jan 2, 2006"
	dateTimeLayout  = "Monday, January 2, 2006 at 03:04:05 PM MST"
)

// Grouped formats v with thousands separators and at most two decimals.
func Grouped(v float64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// Money renders a dollar amount: $8,420, $4.7, -$530.
func Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + Grouped(d.Neg().InexactFloat64())
	}
	return "$" + Grouped(d.InexactFloat64())
}

// Plain prints a float with the fewest digits that round-trip.
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RSI prints an RSI reading to one decimal place.
func RSI(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func ShortDate(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(shortDateLayout)
}

func DateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}
