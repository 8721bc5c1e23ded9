package state

import (
	"time"

	"github.com/shopspring/decimal"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/model"
)

// Reducer computes the next State. It must not retain or mutate slices of
// its argument beyond the returned value.
type Reducer func(State) (State, error)

// SetRSI replaces the market RSI, clamped to [0, 100].
func SetRSI(v float64, at time.Time) Reducer {
	return func(s State) (State, error) {
		s.Market = stamp(s.Market, at)
		s.Market.RSI = model.ClampRSI(v)
		return s, nil
	}
}

// SetQuote applies a full market quote. A zero price keeps the previous one.
func SetQuote(rsi float64, price decimal.Decimal, at time.Time) Reducer {
	return func(s State) (State, error) {
		s, _ = SetRSI(rsi, at)(s)
		if !price.IsZero() {
			s.Market.Price = price
		}
		return s, nil
	}
}

// NudgeRSI adds delta to the market RSI and clamps the result.
func NudgeRSI(delta float64, at time.Time) Reducer {
	return func(s State) (State, error) {
		return SetRSI(s.Market.RSI+delta, at)(s)
	}
}

func SetMarketStatus(status model.MarketStatus) Reducer {
	return func(s State) (State, error) {
		s.Market.Status = status
		return s, nil
	}
}

// SetParams overwrites the strategy parameters. SpreadWidth is not part of
// the form and is carried over when p leaves it zero.
func SetParams(p model.StrategyParams) Reducer {
	return func(s State) (State, error) {
		if p.SpreadWidth.IsZero() {
			p.SpreadWidth = s.Params.SpreadWidth
		}
		s.Params = p
		return s, nil
	}
}

// AddPosition appends p and closes the modal. It refuses when the number of
// OPEN positions has reached Params.MaxPositions.
func AddPosition(p model.Position) Reducer {
	return func(s State) (State, error) {
		if s.Params.MaxPositions > 0 && s.OpenPositions() >= s.Params.MaxPositions {
			return s, ErrMaxPositions
		}
		p.ID = s.NextPositionID(p.ID)
		positions := make([]model.Position, 0, len(s.Positions)+1)
		positions = append(positions, s.Positions...)
		s.Positions = append(positions, p)
		s.Modal = Modal{}
		return s, nil
	}
}

// RefreshDaysToExpiry recomputes DTE for OPEN positions relative to now.
func RefreshDaysToExpiry(now time.Time) Reducer {
	return func(s State) (State, error) {
		positions := make([]model.Position, len(s.Positions))
		for i, p := range s.Positions {
			if p.IsOpen() {
				p.DaysToExpiry = p.Expiry.DaysUntil(now)
			}
			positions[i] = p
		}
		s.Positions = positions
		return s, nil
	}
}

func SetRisk(in analysis.RiskInputs) Reducer {
	return func(s State) (State, error) {
		s.Risk = in
		return s, nil
	}
}

// OpenModal moves the dialog CLOSED -> OPEN with the entry date defaulted
// to today.
func OpenModal(today model.Date) Reducer {
	return func(s State) (State, error) {
		if s.Modal.Open {
			return s, ErrModalOpen
		}
		s.Modal = Modal{Open: true, EntryDate: today}
		return s, nil
	}
}

// CloseModal moves the dialog OPEN -> CLOSED and clears the form.
func CloseModal() Reducer {
	return func(s State) (State, error) {
		if !s.Modal.Open {
			return s, ErrModalClosed
		}
		s.Modal = Modal{}
		return s, nil
	}
}
