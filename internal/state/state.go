// Package state is the dashboard's single application-state container.
//
// Every mutation is a Reducer: a pure function from the current State to the
// next one. Store applies reducers one at a time and hands out deep copies, so
// readers never observe a half-applied change.
package state

import (
	"errors"
	"time"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/model"
)

var (
	ErrModalOpen    = errors.New("add-position modal is already open")
	ErrModalClosed  = errors.New("add-position modal is not open")
	ErrMaxPositions = errors.New("maximum open positions reached")
)

// Modal is the add-position dialog. EntryDate is the form's default entry
// date while open and zero while closed.
type Modal struct {
	Open      bool       `json:"open"`
	EntryDate model.Date `json:"entry_date"`
}

type State struct {
	Market      model.MarketSnapshot     `json:"market"`
	History     []model.RSIPoint         `json:"historical_rsi"`
	Positions   []model.Position         `json:"positions"`
	Performance model.PerformanceSummary `json:"performance"`
	Signals     []model.SignalEvent      `json:"signals"`
	Platforms   []model.Platform         `json:"platforms"`
	Params      model.StrategyParams     `json:"strategy_params"`
	Risk        analysis.RiskInputs      `json:"risk"`
	Modal       Modal                    `json:"modal"`
	// Version increments on every applied reducer.
	Version uint64 `json:"version"`
}

// FromDataset seeds a State from the fixture dataset and the configured risk
// calculator defaults.
func FromDataset(ds model.Dataset, risk analysis.RiskInputs) State {
	s := State{
		Market:      ds.Market,
		History:     ds.History,
		Positions:   ds.Positions,
		Performance: ds.Performance,
		Signals:     ds.Signals,
		Platforms:   ds.Platforms,
		Params:      ds.Params,
		Risk:        risk,
	}
	return s.Clone()
}

// Clone returns a deep copy. All nested values are plain values apart from
// the slices.
func (s State) Clone() State {
	c := s
	c.History = append([]model.RSIPoint(nil), s.History...)
	c.Positions = append([]model.Position(nil), s.Positions...)
	c.Signals = append([]model.SignalEvent(nil), s.Signals...)
	c.Platforms = append([]model.Platform(nil), s.Platforms...)
	return c
}

// OpenPositions counts positions with status OPEN.
func (s State) OpenPositions() int {
	n := 0
	for _, p := range s.Positions {
		if p.IsOpen() {
			n++
		}
	}
	return n
}

// Signal evaluates the current RSI against the configured threshold.
func (s State) Signal() analysis.Signal {
	return analysis.EvaluateSignal(s.Market.RSI, s.Params.RSIThreshold)
}

// NextPositionID returns candidate unless an existing position already uses
// it, in which case it returns one more than the highest id.
func (s State) NextPositionID(candidate int64) int64 {
	var max int64
	clash := false
	for _, p := range s.Positions {
		if p.ID == candidate {
			clash = true
		}
		if p.ID > max {
			max = p.ID
		}
	}
	if clash {
		return max + 1
	}
	return candidate
}

// stamp sets the quote time of m.
func stamp(m model.MarketSnapshot, at time.Time) model.MarketSnapshot {
	m.Timestamp = at
	return m
}
