package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"spx-dashboard/internal/fixture"
	"spx-dashboard/internal/model"
)

// createOutput opens the --out target.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func newExportCmd(ro *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:       "export <positions|signals>",
		Short:     "Write the positions table or the signal log as CSV",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"positions", "signals"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ds, err := ro.dataset()
			if err != nil {
				return err
			}

			if out == "" {
				_, err := writeExport(cmd.OutOrStdout(), args[0], ds)
				return err
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			f, err := createOutput(out)
			if err != nil {
				return err
			}
			rows, err := writeExport(f, args[0], ds)
			if err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", rows, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV path (default: stdout)")
	return cmd
}

func writeExport(w io.Writer, kind string, ds model.Dataset) (int, error) {
	var (
		rows int
		err  error
	)
	switch kind {
	case "positions":
		err = fixture.WritePositionsCSV(w, ds.Positions)
		rows = len(ds.Positions)
	case "signals":
		err = fixture.WriteSignalsCSV(w, ds.Signals)
		rows = len(ds.Signals)
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", kind, err)
	}
	return rows, nil
}
