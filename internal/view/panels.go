package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/model"
	"spx-dashboard/internal/state"
)

// Panel names a renderable fragment of the page.
type Panel string

const (
	PanelRSI          Panel = "rsi"
	PanelMarketStatus Panel = "market-status"
	PanelDateTime     Panel = "datetime"
	PanelPositions    Panel = "positions"
	PanelPerformance  Panel = "performance"
	PanelSignals      Panel = "signals"
	PanelPlatforms    Panel = "platforms"
	PanelStrategy     Panel = "strategy"
	PanelRisk         Panel = "risk"
	// PanelRiskResult is the computed part of the risk calculator, nested in
	// PanelRisk. Pushes use it so the inputs are never replaced while typed in.
	PanelRiskResult Panel = "risk-result"
	PanelModal        Panel = "modal"
)

// Panels lists every panel in page order.
var Panels = []Panel{
	PanelRSI, PanelMarketStatus, PanelDateTime, PanelPositions, PanelPerformance,
	PanelSignals, PanelPlatforms, PanelStrategy, PanelRisk, PanelRiskResult, PanelModal,
}

func ParsePanel(s string) (Panel, bool) {
	for _, p := range Panels {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Options carries the inputs that are not part of State.
type Options struct {
	Now         time.Time
	Hours       analysis.MarketHours
	Performance analysis.PerformanceSource
	RiskWidth   analysis.WidthSource
}

type RSIView struct {
	Value       string
	Signal      string
	SignalClass string
	Distance    string
}

func BuildRSI(m model.MarketSnapshot, p model.StrategyParams) RSIView {
	sig := analysis.EvaluateSignal(m.RSI, p.RSIThreshold)
	class := "status--info"
	if sig == analysis.SignalBuy {
		class = "status--success"
	}
	return RSIView{
		Value:       RSI(m.RSI),
		Signal:      string(sig),
		SignalClass: class,
		Distance:    distance(analysis.ThresholdDistance(m.RSI, p.RSIThreshold)),
	}
}

func distance(d float64) string {
	switch {
	case d > 0:
		return fmt.Sprintf("+%.1f above threshold", d)
	case d < 0:
		return fmt.Sprintf("%.1f below threshold", d)
	}
	return "at threshold"
}

type MarketStatusView struct {
	Text  string
	Class string
}

func BuildMarketStatus(h analysis.MarketHours, now time.Time) MarketStatusView {
	if h.IsOpen(now) {
		return MarketStatusView{Text: "MARKET OPEN", Class: "status--success"}
	}
	return MarketStatusView{Text: "MARKET CLOSED", Class: "status--error"}
}

type DateTimeView struct {
	Text string
}

func BuildDateTime(now time.Time) DateTimeView {
	return DateTimeView{Text: DateTime(now)}
}

type PositionRow struct {
	ID          int64
	EntryDate   string
	Strikes     string
	DTE         int
	PnL         string
	PnLClass    string
	Status      string
	StatusClass string
}

// PnLClass is "profit" for pnl >= 0 and "loss" otherwise.
func PnLClass(p model.Position) string {
	if p.PnL.IsNegative() {
		return "loss"
	}
	return "profit"
}

func statusClass(s model.PositionStatus) string {
	switch s {
	case model.StatusOpen:
		return "status--info"
	case model.StatusTargetHit:
		return "status--success"
	}
	return "status--error"
}

func BuildPositions(positions []model.Position) []PositionRow {
	rows := make([]PositionRow, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, PositionRow{
			ID:          p.ID,
			EntryDate:   ShortDate(p.EntryDate),
			Strikes:     p.ShortStrike.String() + "/" + p.LongStrike.String(),
			DTE:         p.DaysToExpiry,
			PnL:         Money(p.PnL),
			PnLClass:    PnLClass(p),
			Status:      p.Status.Label(),
			StatusClass: statusClass(p.Status),
		})
	}
	return rows
}

type PerformanceView struct {
	WinRate  string
	TotalPnL string
	AvgDays  string
	MonthPnL string
	Source   string
}

func BuildPerformance(s model.PerformanceSummary, src analysis.PerformanceSource) PerformanceView {
	return PerformanceView{
		WinRate:  Plain(s.WinRate) + "%",
		TotalPnL: Money(s.TotalPnL),
		AvgDays:  Plain(s.AvgDaysInTrade),
		MonthPnL: Money(s.CurrentMonthPnL),
		Source:   string(src),
	}
}

type SignalItem struct {
	Date         string
	RSI          string
	Action       string
	ActionClass  string
	Outcome      string
	OutcomeClass string
}

func BuildSignals(events []model.SignalEvent) []SignalItem {
	items := make([]SignalItem, 0, len(events))
	for _, e := range events {
		action := "loss"
		if e.Action == model.ActionEntered {
			action = "profit"
		}
		outcome := ""
		switch e.Outcome {
		case model.OutcomeWin:
			outcome = "profit"
		case model.OutcomeLoss:
			outcome = "loss"
		}
		items = append(items, SignalItem{
			Date:         ShortDate(e.Date),
			RSI:          "RSI: " + Plain(e.RSI),
			Action:       string(e.Action),
			ActionClass:  action,
			Outcome:      string(e.Outcome),
			OutcomeClass: outcome,
		})
	}
	return items
}

type PlatformItem struct {
	Name        string
	Details     string
	Rating      string
	RatingClass string
	SignupURL   string
}

// RatingClass lowercases the rating and turns its first space into a hyphen.
func RatingClass(r model.Rating) string {
	return strings.Replace(strings.ToLower(string(r)), " ", "-", 1)
}

func BuildPlatforms(platforms []model.Platform) []PlatformItem {
	items := make([]PlatformItem, 0, len(platforms))
	for _, p := range platforms {
		spx := "No"
		if p.SPXSupport {
			spx = "Yes"
		}
		api := string(p.APISupport)
		if api == "" {
			api = string(model.APINo)
		}
		items = append(items, PlatformItem{
			Name:        p.Name,
			Details:     fmt.Sprintf("Commission: %s | SPX: %s | API: %s", p.Commission, spx, api),
			Rating:      string(p.Rating),
			RatingClass: RatingClass(p.Rating),
			SignupURL:   p.SignupURL,
		})
	}
	return items
}

// StrategyView holds the five form values as the inputs display them.
type StrategyView struct {
	RSIThreshold string
	DaysToExpiry string
	ProfitTarget string
	PositionSize string
	MaxPositions string
}

func BuildStrategy(p model.StrategyParams) StrategyView {
	return StrategyView{
		RSIThreshold: Plain(p.RSIThreshold),
		DaysToExpiry: strconv.Itoa(p.DaysToExpiry),
		ProfitTarget: Plain(p.ProfitTarget),
		PositionSize: strconv.Itoa(p.PositionSize),
		MaxPositions: strconv.Itoa(p.MaxPositions),
	}
}

type RiskView struct {
	AccountBalance string
	RiskPercent    string
	MaxRisk        string
	PortfolioRisk  string
	WidthNote      string
}

func BuildRisk(in analysis.RiskInputs, positions []model.Position, width analysis.WidthSource, p model.StrategyParams) RiskView {
	w := width.Width(p)
	res := analysis.CalculateRisk(in, positions, w)
	return RiskView{
		AccountBalance: in.AccountBalance.String(),
		RiskPercent:    in.RiskPercent.String(),
		MaxRisk:        Money(res.MaxRisk),
		PortfolioRisk:  Money(res.PortfolioRisk),
		WidthNote:      "Assumes " + Money(w) + " spread width",
	}
}

type ModalView struct {
	Open      bool
	EntryDate string
}

func BuildModal(m state.Modal) ModalView {
	return ModalView{Open: m.Open, EntryDate: m.EntryDate.String()}
}

// Dashboard is every panel's view-model for one State.
type Dashboard struct {
	RSI          RSIView
	MarketStatus MarketStatusView
	DateTime     DateTimeView
	Positions    []PositionRow
	Performance  PerformanceView
	Signals      []SignalItem
	Platforms    []PlatformItem
	Strategy     StrategyView
	Risk         RiskView
	Modal        ModalView
}

func BuildDashboard(st state.State, opt Options) Dashboard {
	perf := opt.Performance.Select(st.Performance, st.Positions, opt.Now)
	src := opt.Performance
	if !src.Valid() {
		src = analysis.PerformanceFixture
	}
	return Dashboard{
		RSI:          BuildRSI(st.Market, st.Params),
		MarketStatus: BuildMarketStatus(opt.Hours, opt.Now),
		DateTime:     BuildDateTime(opt.Now),
		Positions:    BuildPositions(st.Positions),
		Performance:  BuildPerformance(perf, src),
		Signals:      BuildSignals(st.Signals),
		Platforms:    BuildPlatforms(st.Platforms),
		Strategy:     BuildStrategy(st.Params),
		Risk:         BuildRisk(st.Risk, st.Positions, opt.RiskWidth, st.Params),
		Modal:        BuildModal(st.Modal),
	}
}
