// Package controller turns user interactions into state changes, re-renders
// the affected panels and announces the outcome on the notification bus.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/chart"
	"spx-dashboard/internal/model"
	"spx-dashboard/internal/notify"
	"spx-dashboard/internal/state"
	"spx-dashboard/internal/view"
)

const (
	MsgStrategyUpdated = "Strategy parameters updated successfully!"
	MsgPositionAdded   = "Position added successfully!"
)

// CloseTrigger is how the user dismissed the modal.
type CloseTrigger string

const (
	TriggerClose    CloseTrigger = "close"
	TriggerCancel   CloseTrigger = "cancel"
	TriggerBackdrop CloseTrigger = "backdrop"
)

// Gauges receives state figures worth exporting. Optional.
type Gauges interface {
	SetOpenPositions(n int)
	SetMarketRSI(v float64)
}

type Options struct {
	Hours       analysis.MarketHours
	Performance analysis.PerformanceSource
	RiskWidth   analysis.WidthSource
}

// Result is what an interaction produced: the new state, the re-rendered
// panels and, for strategy changes, the chart configuration.
type Result struct {
	State   state.State       `json:"-"`
	Changed bool              `json:"changed"`
	Panels  map[string]string `json:"panels,omitempty"`
	Chart   *chart.Config     `json:"chart,omitempty"`
	Event   *notify.Event     `json:"notification,omitempty"`
}

type Controller struct {
	store    *state.Store
	renderer *view.Renderer
	chart    *chart.Handle
	bus      *notify.Bus
	opts     Options
	gauges   Gauges
	now      func() time.Time
	logger   *slog.Logger

	// mu serialises interactions so a dispatch, its chart update and its
	// render finish before the next one starts.
	mu         sync.Mutex
	lastStatus model.MarketStatus
	lastDay    model.Date
}

func New(store *state.Store, renderer *view.Renderer, handle *chart.Handle, bus *notify.Bus, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		store:    store,
		renderer: renderer,
		chart:    handle,
		bus:      bus,
		opts:     opts,
		now:      time.Now,
		logger:   logger.With("component", "controller"),
	}
	return c
}

// SetNow replaces the time source.
func (c *Controller) SetNow(now func() time.Time) { c.now = now }

func (c *Controller) SetGauges(g Gauges) {
	c.gauges = g
	c.observe(c.store.Get())
}

func (c *Controller) Store() *state.Store { return c.store }

func (c *Controller) Chart() *chart.Handle { return c.chart }

func (c *Controller) Renderer() *view.Renderer { return c.renderer }

func (c *Controller) Options() Options { return c.opts }

// Now reads the controller's time source.
func (c *Controller) Now() time.Time { return c.now() }

func (c *Controller) viewOptions(now time.Time) view.Options {
	return view.Options{
		Now:         now,
		Hours:       c.opts.Hours,
		Performance: c.opts.Performance,
		RiskWidth:   c.opts.RiskWidth,
	}
}

// Dashboard builds every panel's view-model for the current state.
func (c *Controller) Dashboard() view.Dashboard {
	return view.BuildDashboard(c.store.Get(), c.viewOptions(c.now()))
}

func (c *Controller) render(st state.State, now time.Time, panels ...view.Panel) (map[string]string, error) {
	d := view.BuildDashboard(st, c.viewOptions(now))
	out, err := c.renderer.Panels(d, panels...)
	if err != nil {
		return nil, fmt.Errorf("render panels: %w", err)
	}
	return out, nil
}

func (c *Controller) publish(kind notify.Kind, level notify.Level, msg string, now time.Time, panels map[string]string, data any) *notify.Event {
	ev := notify.NewEvent(kind, level, msg, now)
	ev.Panels = panels
	ev.Data = data
	if c.bus != nil {
		c.bus.Publish(ev)
	}
	return &ev
}

func (c *Controller) observe(st state.State) {
	if c.gauges == nil {
		return
	}
	c.gauges.SetOpenPositions(st.OpenPositions())
	c.gauges.SetMarketRSI(st.Market.RSI)
}

// SubmitStrategy overwrites the strategy parameters, moves the chart's
// threshold line and re-renders the RSI readout.
func (c *Controller) SubmitStrategy(f StrategyForm) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	params, err := ParseStrategy(f)
	if err != nil {
		return Result{}, err
	}
	st, err := c.store.Dispatch(state.SetParams(params))
	if err != nil {
		return Result{}, err
	}
	c.chart.Update(st.Params.RSIThreshold)
	cfg := c.chart.Config()

	now := c.now()
	panels, err := c.render(st, now, view.PanelRSI, view.PanelStrategy)
	if err != nil {
		return Result{}, err
	}
	c.logger.Info("strategy updated",
		"rsi_threshold", st.Params.RSIThreshold,
		"days_to_expiry", st.Params.DaysToExpiry,
		"profit_target", st.Params.ProfitTarget,
		"position_size", st.Params.PositionSize,
		"max_positions", st.Params.MaxPositions)
	ev := c.publish(notify.KindStrategy, notify.LevelSuccess, MsgStrategyUpdated, now, panels, cfg)
	return Result{State: st, Changed: true, Panels: panels, Chart: &cfg, Event: ev}, nil
}

// SubmitPosition records a hand-entered spread as OPEN, closes the modal
// and re-renders the positions table and risk calculator.
func (c *Controller) SubmitPosition(f PositionForm) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	in, err := ParsePosition(f)
	if err != nil {
		return Result{}, err
	}
	now := c.now()
	p := analysis.NewOpenPosition(now.UnixMilli(), in.EntryDate, in.ShortStrike, in.LongStrike, in.Expiry, in.Quantity, in.EntryCredit, now)

	st, err := c.store.Dispatch(state.AddPosition(p))
	if errors.Is(err, state.ErrMaxPositions) {
		ve := &ValidationError{}
		ve.add("positions", fmt.Sprintf("already holding the maximum of %d open positions", c.store.Get().Params.MaxPositions))
		return Result{}, ve
	}
	if err != nil {
		return Result{}, err
	}
	added := st.Positions[len(st.Positions)-1]
	c.observe(st)

	panels, err := c.render(st, now, view.PanelPositions, view.PanelRiskResult, view.PanelPerformance, view.PanelModal)
	if err != nil {
		return Result{}, err
	}
	c.logger.Info("position added",
		"id", added.ID,
		"short_strike", added.ShortStrike.String(),
		"long_strike", added.LongStrike.String(),
		"quantity", added.Quantity,
		"entry_credit", added.EntryCredit.String(),
		"dte", added.DaysToExpiry)
	ev := c.publish(notify.KindPosition, notify.LevelSuccess, MsgPositionAdded, now, panels, added)
	return Result{State: st, Changed: true, Panels: panels, Event: ev}, nil
}

// UpdateRisk applies new risk-calculator inputs.
func (c *Controller) UpdateRisk(f RiskForm) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	in, err := ParseRisk(f)
	if err != nil {
		return Result{}, err
	}
	st, err := c.store.Dispatch(state.SetRisk(in))
	if err != nil {
		return Result{}, err
	}
	now := c.now()
	panels, err := c.render(st, now, view.PanelRiskResult)
	if err != nil {
		return Result{}, err
	}
	ev := c.publish(notify.KindRisk, notify.LevelInfo, "", now, panels, nil)
	return Result{State: st, Changed: true, Panels: panels, Event: ev}, nil
}

// OpenModal moves the add-position dialog to OPEN with today's date in
// the entry field.
func (c *Controller) OpenModal() (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	st, err := c.store.Dispatch(state.OpenModal(model.DateOf(now)))
	if err != nil {
		return Result{}, err
	}
	panels, err := c.render(st, now, view.PanelModal)
	if err != nil {
		return Result{}, err
	}
	ev := c.publish(notify.KindModal, notify.LevelInfo, "", now, panels, nil)
	return Result{State: st, Changed: true, Panels: panels, Event: ev}, nil
}

// CloseModal handles close, cancel and backdrop clicks. A backdrop click
// only closes when it landed on the modal container itself; clicks inside
// the content are ignored and reported with Changed false.
func (c *Controller) CloseModal(trigger CloseTrigger, target string) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch trigger {
	case TriggerClose, TriggerCancel:
	case TriggerBackdrop:
		if target != view.SlotModal {
			return Result{State: c.store.Get()}, nil
		}
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrBadTrigger, trigger)
	}

	st, err := c.store.Dispatch(state.CloseModal())
	if err != nil {
		return Result{}, err
	}
	now := c.now()
	panels, err := c.render(st, now, view.PanelModal)
	if err != nil {
		return Result{}, err
	}
	ev := c.publish(notify.KindModal, notify.LevelInfo, "", now, panels, nil)
	return Result{State: st, Changed: true, Panels: panels, Event: ev}, nil
}

// DateTimeTick refreshes the date/time readout and, when they change, the
// market status badge and (on a new calendar day) the positions' DTE.
func (c *Controller) DateTimeTick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	panelsWanted := []view.Panel{view.PanelDateTime}
	st := c.store.Get()
	var err error

	if status := c.opts.Hours.Status(now); status != c.lastStatus {
		st, err = c.store.Dispatch(state.SetMarketStatus(status))
		if err != nil {
			c.logger.Error("set market status", "error", err)
			return
		}
		c.lastStatus = status
		panelsWanted = append(panelsWanted, view.PanelMarketStatus)
	}

	if today := model.DateOf(now); !today.Equal(c.lastDay.Time) {
		st, err = c.store.Dispatch(state.RefreshDaysToExpiry(now))
		if err != nil {
			c.logger.Error("refresh days to expiry", "error", err)
			return
		}
		c.lastDay = today
		panelsWanted = append(panelsWanted, view.PanelPositions, view.PanelPerformance)
	}

	panels, err := c.render(st, now, panelsWanted...)
	if err != nil {
		c.logger.Error("render clock panels", "error", err)
		return
	}
	c.publish(notify.KindClock, notify.LevelInfo, "", now, panels, nil)
}

// Snapshot renders every panel into one event without publishing it. The
// websocket hub sends it to clients as they connect.
func (c *Controller) Snapshot() (notify.Event, bool) {
	now := c.now()
	panels, err := c.render(c.store.Get(), now, view.Panels...)
	if err != nil {
		c.logger.Error("render snapshot", "error", err)
		return notify.Event{}, false
	}
	ev := notify.NewEvent(notify.KindSnapshot, notify.LevelInfo, "", now)
	ev.Panels = panels
	return ev, true
}

// RSIUpdated re-renders the RSI readout after the feed moved the value.
func (c *Controller) RSIUpdated(st state.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observe(st)
	now := c.now()
	panels, err := c.render(st, now, view.PanelRSI)
	if err != nil {
		c.logger.Error("render rsi panel", "error", err)
		return
	}
	c.publish(notify.KindRSI, notify.LevelInfo, "", now, panels, nil)
}
