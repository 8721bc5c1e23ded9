package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/state"
	"spx-dashboard/internal/view"
)

func panelNames() string {
	names := make([]string, len(view.Panels))
	for i, p := range view.Panels {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func newRenderCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <panel|page>",
		Short: "Render one dashboard panel, or the whole page, as HTML",
		Long:  "Render one dashboard panel, or the whole page, from the fixture dataset.\n\nPanels: " + panelNames(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ds, err := ro.dataset()
			if err != nil {
				return err
			}
			hours, err := cfg.MarketHours()
			if err != nil {
				return err
			}
			renderer, err := view.NewRenderer()
			if err != nil {
				return err
			}
			d := view.BuildDashboard(state.FromDataset(ds, cfg.RiskInputs()), view.Options{
				Now:         ro.now(),
				Hours:       hours,
				Performance: analysis.PerformanceSource(cfg.Performance.Source),
				RiskWidth:   analysis.WidthSource(cfg.Risk.SpreadWidthSource),
			})

			if args[0] == "page" {
				return renderer.Page(cmd.OutOrStdout(), d)
			}
			p, ok := view.ParsePanel(args[0])
			if !ok {
				return fmt.Errorf("unknown panel %q (want page or one of: %s)", args[0], panelNames())
			}
			return renderer.Panel(cmd.OutOrStdout(), p, d)
		},
	}
}
