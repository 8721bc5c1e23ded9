package analysis

import (
	"math"
	"sort"
	"time"

	"spx-dashboard/internal/model"

	"github.com/shopspring/decimal"
)

// DerivePerformance aggregates the position list into the tile figures.
//
// Every position counts as a trade. A winner has pnl > 0. Month P&L sums
// positions entered in now's calendar month. Days in trade run from entry to
// the earlier of expiry and now. Drawdown is the deepest peak-to-trough fall
// of cumulative P&L ordered by entry date, reported as a value <= 0.
func DerivePerformance(positions []model.Position, now time.Time) model.PerformanceSummary {
	out := model.PerformanceSummary{
		TotalPnL:        decimal.Zero,
		CurrentMonthPnL: decimal.Zero,
		MaxDrawdown:     decimal.Zero,
	}
	if len(positions) == 0 {
		return out
	}

	sorted := append([]model.Position(nil), positions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryDate.Before(sorted[j].EntryDate.Time)
	})

	today := model.DateOf(now)
	var days float64
	cum, peak := decimal.Zero, decimal.Zero
	for _, p := range sorted {
		out.TotalTrades++
		if p.PnL.IsPositive() {
			out.WinningTrades++
		}
		out.TotalPnL = out.TotalPnL.Add(p.PnL)
		if p.EntryDate.Year() == now.Year() && p.EntryDate.Month() == now.Month() {
			out.CurrentMonthPnL = out.CurrentMonthPnL.Add(p.PnL)
		}

		end := p.Expiry
		if today.Before(end.Time) {
			end = today
		}
		if d := end.Sub(p.EntryDate.Time).Hours() / 24; d > 0 {
			days += d
		}

		cum = cum.Add(p.PnL)
		if cum.GreaterThan(peak) {
			peak = cum
		}
		if dd := cum.Sub(peak); dd.LessThan(out.MaxDrawdown) {
			out.MaxDrawdown = dd
		}
	}

	out.WinRate = round1(float64(out.WinningTrades) / float64(out.TotalTrades) * 100)
	out.AvgDaysInTrade = round1(days / float64(out.TotalTrades))
	return out
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// PerformanceSource selects what the performance tiles show.
type PerformanceSource string

const (
	PerformanceFixture PerformanceSource = "fixture"
	PerformanceDerived PerformanceSource = "derived"
)

func (p PerformanceSource) Valid() bool {
	return p == PerformanceFixture || p == PerformanceDerived
}

// Select returns the stored aggregate or one derived from positions.
func (p PerformanceSource) Select(stored model.PerformanceSummary, positions []model.Position, now time.Time) model.PerformanceSummary {
	if p == PerformanceDerived {
		return DerivePerformance(positions, now)
	}
	return stored
}
