// Package cli is the offline command set: signal and risk arithmetic, spread
// metrics, panel rendering, CSV export and config scaffolding. The server
// lives in cmd/api.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/config"
	"spx-dashboard/internal/fixture"
	"spx-dashboard/internal/model"
)

type rootOptions struct {
	configPath   string
	fixturesPath string
	now          func() time.Time
}

// NewRootCmd builds the spxdash command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{now: time.Now})
}

func newRootCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "spxdash",
		Short:         "SPX RSI credit-spread dashboard tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&ro.configPath, "config", "c", "", "path to YAML config")
	cmd.PersistentFlags().StringVar(&ro.fixturesPath, "fixtures", "", "dataset YAML (overrides fixtures.path)")

	cmd.AddCommand(
		newSignalCmd(ro),
		newRiskCmd(ro),
		newSpreadCmd(ro),
		newRenderCmd(ro),
		newExportCmd(ro),
		newConfigCmd(ro),
	)
	return cmd
}

func (ro *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(ro.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if ro.fixturesPath != "" {
		cfg.Fixtures.Path = ro.fixturesPath
	}
	return cfg, nil
}

func (ro *rootOptions) dataset() (*config.Config, model.Dataset, error) {
	cfg, err := ro.loadConfig()
	if err != nil {
		return nil, model.Dataset{}, err
	}
	fx, err := fixture.Load(cfg.Fixtures.Path)
	if err != nil {
		return nil, model.Dataset{}, err
	}
	return cfg, fx.Dataset(), nil
}

func parseWidthSource(s string) (analysis.WidthSource, error) {
	w := analysis.WidthSource(s)
	if !w.Valid() {
		return "", fmt.Errorf("width source must be fixed or params, got %q", s)
	}
	return w, nil
}
