package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"spx-dashboard/internal/analysis"
	"spx-dashboard/internal/model"
	"spx-dashboard/internal/view"
)

func newSignalCmd(ro *rootOptions) *cobra.Command {
	var rsi, threshold float64
	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Evaluate the RSI entry signal",
		Long: `Evaluate whether RSI is below the entry threshold.

Values not given on the command line come from the fixture dataset.

Example:
  spxdash signal --rsi 28.5 --threshold 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, ds, err := ro.dataset()
			if err != nil {
				return err
			}
			market := ds.Market
			params := ds.Params
			if cmd.Flags().Changed("rsi") {
				market.RSI = model.ClampRSI(rsi)
			}
			if cmd.Flags().Changed("threshold") {
				if threshold <= 0 || threshold >= 100 {
					return fmt.Errorf("--threshold must be between 0 and 100 exclusive")
				}
				params.RSIThreshold = threshold
			}
			v := view.BuildRSI(market, params)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "RSI:\t%s\n", v.Value)
			fmt.Fprintf(w, "Threshold:\t%s\n", view.Plain(params.RSIThreshold))
			fmt.Fprintf(w, "Signal:\t%s (%s)\n", v.Signal, v.Distance)
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&rsi, "rsi", 0, "RSI value (default: fixture market RSI)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "entry threshold (default: fixture strategy)")
	return cmd
}

func newRiskCmd(ro *rootOptions) *cobra.Command {
	var balance, percent float64
	var widthSource string
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Compute max risk per trade and current portfolio risk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, ds, err := ro.dataset()
			if err != nil {
				return err
			}
			in := cfg.RiskInputs()
			if cmd.Flags().Changed("balance") {
				if balance < 0 {
					return fmt.Errorf("--balance must not be negative")
				}
				in.AccountBalance = decimal.NewFromFloat(balance)
			}
			if cmd.Flags().Changed("percent") {
				if percent < 0 || percent > 100 {
					return fmt.Errorf("--percent must be between 0 and 100")
				}
				in.RiskPercent = decimal.NewFromFloat(percent)
			}
			src := analysis.WidthSource(cfg.Risk.SpreadWidthSource)
			if widthSource != "" {
				if src, err = parseWidthSource(widthSource); err != nil {
					return err
				}
			}

			v := view.BuildRisk(in, ds.Positions, src, ds.Params)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Account Balance:\t%s\n", view.Money(in.AccountBalance))
			fmt.Fprintf(w, "Risk Per Trade:\t%s%%\n", in.RiskPercent.String())
			fmt.Fprintf(w, "Max Risk:\t%s\n", v.MaxRisk)
			fmt.Fprintf(w, "Portfolio Risk:\t%s\n", v.PortfolioRisk)
			fmt.Fprintf(w, "Open Positions:\t%d\n", countOpen(ds.Positions))
			fmt.Fprintf(w, "\t%s\n", v.WidthNote)
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&balance, "balance", 0, "account balance in dollars (default: config risk.account_balance)")
	cmd.Flags().Float64Var(&percent, "percent", 0, "risk per trade in percent (default: config risk.risk_percent)")
	cmd.Flags().StringVar(&widthSource, "width-source", "", "spread width for portfolio risk: fixed or params")
	return cmd
}

func countOpen(positions []model.Position) int {
	n := 0
	for _, p := range positions {
		if p.IsOpen() {
			n++
		}
	}
	return n
}

func newSpreadCmd(ro *rootOptions) *cobra.Command {
	var short, long, credit string
	var profitTarget float64
	cmd := &cobra.Command{
		Use:   "spread",
		Short: "Show width, max risk, exit price and reward/risk of a bull put spread",
		Long: `Show the payoff figures of one contract of a bull put spread.

Example:
  spxdash spread --short 5800 --long 5790 --credit 2.35`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := decimal.NewFromString(short)
			if err != nil {
				return fmt.Errorf("--short: %w", err)
			}
			l, err := decimal.NewFromString(long)
			if err != nil {
				return fmt.Errorf("--long: %w", err)
			}
			c, err := decimal.NewFromString(credit)
			if err != nil {
				return fmt.Errorf("--credit: %w", err)
			}
			if !s.GreaterThan(l) {
				return fmt.Errorf("short strike must be above long strike for a bull put spread")
			}
			if !c.IsPositive() {
				return fmt.Errorf("--credit must be positive")
			}
			if !cmd.Flags().Changed("profit-target") {
				_, ds, err := ro.dataset()
				if err != nil {
					return err
				}
				profitTarget = ds.Params.ProfitTarget
			}

			m := analysis.CalculateSpreadMetrics(s, l, c, profitTarget)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Strikes:\t%s/%s\n", s.String(), l.String())
			fmt.Fprintf(w, "Width:\t%s\n", m.Width.String())
			fmt.Fprintf(w, "Credit:\t%s\n", c.StringFixed(2))
			fmt.Fprintf(w, "Max Risk:\t%s (%s per contract)\n", m.MaxRiskPerSpread.StringFixed(2), view.Money(m.MaxRiskPerSpread.Mul(decimal.NewFromInt(100))))
			fmt.Fprintf(w, "Exit at %s%%:\t%s\n", view.Plain(profitTarget), m.ProfitTargetExit.StringFixed(2))
			fmt.Fprintf(w, "Reward/Risk:\t%s\n", m.RewardRisk.String())
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&short, "short", "", "short put strike (required)")
	cmd.Flags().StringVar(&long, "long", "", "long put strike (required)")
	cmd.Flags().StringVar(&credit, "credit", "", "credit received per share (required)")
	cmd.Flags().Float64Var(&profitTarget, "profit-target", 0, "profit target percent (default: fixture strategy)")
	_ = cmd.MarkFlagRequired("short")
	_ = cmd.MarkFlagRequired("long")
	_ = cmd.MarkFlagRequired("credit")
	return cmd
}
