package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spx-dashboard/internal/config"
)

func newConfigCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check configuration files",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd(ro))
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Default().SaveToFile(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultFileName+".yaml", "where to write the config")
	return cmd
}

func newConfigValidateCmd(ro *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a config file with environment overrides and validate it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := file
			if path == "" {
				path = ro.configPath
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config OK (port %d, feed %s, performance %s, width %s)\n",
				cfg.Server.Port, cfg.Feed.Type, cfg.Performance.Source, cfg.Risk.SpreadWidthSource)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "config file to check (default: --config or the search path)")
	return cmd
}
