package fixture

import (
	"encoding/csv"
	"io"
	"strconv"

	"spx-dashboard/internal/model"
)

// WritePositionsCSV writes one row per position.
func WritePositionsCSV(out io.Writer, positions []model.Position) error {
	w := csv.NewWriter(out)

	header := []string{
		"id",
		"entry_date",
		"short_strike",
		"long_strike",
		"expiry",
		"quantity",
		"entry_credit",
		"current_value",
		"pnl",
		"status",
		"dte",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, p := range positions {
		row := []string{
			strconv.FormatInt(p.ID, 10),
			p.EntryDate.String(),
			p.ShortStrike.String(),
			p.LongStrike.String(),
			p.Expiry.String(),
			strconv.Itoa(p.Quantity),
			p.EntryCredit.StringFixed(2),
			p.CurrentValue.StringFixed(2),
			p.PnL.StringFixed(2),
			string(p.Status),
			strconv.Itoa(p.DaysToExpiry),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteSignalsCSV writes the signal log.
func WriteSignalsCSV(out io.Writer, signals []model.SignalEvent) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"date", "rsi", "action", "outcome"}); err != nil {
		return err
	}
	for _, s := range signals {
		row := []string{
			s.Date.String(),
			strconv.FormatFloat(s.RSI, 'f', 1, 64),
			string(s.Action),
			string(s.Outcome),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
