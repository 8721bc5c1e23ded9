// Package app assembles the dashboard from its configuration: the state
// container seeded from fixtures, the controller, the clock with its RSI
// feed, the notification fan-out and the HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/api"
	"spx-dashboard/internal/chart"
	"spx-dashboard/internal/clock"
	"spx-dashboard/internal/config"
	"spx-dashboard/internal/controller"
	"spx-dashboard/internal/fixture"
	"spx-dashboard/internal/metrics"
	"spx-dashboard/internal/notify"
	"spx-dashboard/internal/state"
	"spx-dashboard/internal/view"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Fixtures   *fixture.Store
	Store      *state.Store
	Chart      *chart.Handle
	Bus        *notify.Bus
	Controller *controller.Controller
	Metrics    *metrics.Metrics
	Hub        *notify.Hub
	Feed       clock.Feed
	Clock      *clock.Clock
	Router     *gin.Engine

	sink notify.Sink
}

// New wires every component but starts nothing.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	hours, err := cfg.MarketHours()
	if err != nil {
		return nil, fmt.Errorf("market hours: %w", err)
	}

	fx, err := fixture.Load(cfg.Fixtures.Path)
	if err != nil {
		return nil, err
	}
	ds := fx.Dataset()
	logger.Info("fixtures loaded",
		"source", fx.Source(),
		"positions", len(ds.Positions),
		"history", len(ds.History))

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Fixtures: fx,
		Store:    state.NewStore(state.FromDataset(ds, cfg.RiskInputs())),
		Chart:    chart.Initialize(view.SlotRSIChart, chart.SeriesFromHistory(ds.History), ds.Params.RSIThreshold),
		Bus:      notify.NewBus(logger),
		Metrics:  metrics.New(),
	}
	a.Bus.OnPublish(func(ev notify.Event) {
		a.Metrics.CountNotification(string(ev.Kind))
	})

	a.Controller = controller.New(a.Store, renderer, a.Chart, a.Bus, controller.Options{
		Hours:       hours,
		Performance: analysis.PerformanceSource(cfg.Performance.Source),
		RiskWidth:   analysis.WidthSource(cfg.Risk.SpreadWidthSource),
	}, logger)
	a.Controller.SetGauges(a.Metrics)

	a.Feed, err = newFeed(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Clock = clock.New(cfg.ClockConfig(), a.Store, a.Feed, a.Controller, logger)

	a.Hub = notify.NewHub(a.Bus, logger, nil)
	a.Hub.Greeting = a.Controller.Snapshot

	if cfg.Telegram.Enabled {
		bot, err := notify.NewTelegramBot(cfg.Telegram.Token)
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
		a.sink = notify.NewTelegramSink(bot, cfg.Telegram.ChatID, logger)
	}

	if cfg.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	a.Router = api.NewRouter(api.Deps{
		Controller:  a.Controller,
		Hub:         a.Hub,
		Metrics:     a.Metrics,
		Logger:      logger,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	return a, nil
}

func newFeed(cfg *config.Config, logger *slog.Logger) (clock.Feed, error) {
	switch cfg.Feed.Type {
	case "http":
		f, err := clock.NewHTTPFeed(cfg.HTTPFeedConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("rsi feed: %w", err)
		}
		return f, nil
	case "", "simulated":
		return clock.NewSimulatedFeed(nil), nil
	default:
		return nil, fmt.Errorf("unknown feed type %q", cfg.Feed.Type)
	}
}

// Run serves HTTP and runs the clock until ctx is cancelled, then shuts the
// server down and waits for the background tasks.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Clock.Run(ctx)
	}()
	if hf, ok := a.Feed.(*clock.HTTPFeed); ok {
		hf.StartCacheCleanup(ctx)
	}
	if a.sink != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			notify.Forward(ctx, a.Bus, a.sink, a.Logger)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("starting API server", "addr", srv.Addr, "env", a.Config.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("shutting down")
	case err := <-errCh:
		runErr = fmt.Errorf("failed to start server: %w", err)
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutdown: %w", err)
	}
	cancel()
	a.Bus.Close()
	wg.Wait()
	a.Logger.Info("stopped")
	return runErr
}
