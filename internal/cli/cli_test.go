package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&rootOptions{now: func() time.Time { return testNow }})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSignal(t *testing.T) {
	out, err := run(t, "signal")
	require.NoError(t, err)
	assert.Regexp(t, `RSI:\s+32\.4`, out)
	assert.Contains(t, out, "BUY SIGNAL (-2.6 below threshold)")

	out, err = run(t, "signal", "--rsi", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "NO SIGNAL (+5.0 above threshold)")

	out, err = run(t, "signal", "--rsi", "140", "--threshold", "30")
	require.NoError(t, err)
	assert.Regexp(t, `RSI:\s+100\.0`, out)

	_, err = run(t, "signal", "--threshold", "150")
	assert.Error(t, err)
}

func TestRisk(t *testing.T) {
	out, err := run(t, "risk", "--balance", "10000", "--percent", "2")
	require.NoError(t, err)
	assert.Regexp(t, `Max Risk:\s+\$200\n`, out)
	assert.Regexp(t, `Portfolio Risk:\s+\$2,000\n`, out)
	assert.Contains(t, out, "Assumes $10 spread width")

	_, err = run(t, "risk", "--percent", "101")
	assert.Error(t, err)

	_, err = run(t, "risk", "--width-source", "wide")
	assert.Error(t, err)
}

func TestSpread(t *testing.T) {
	out, err := run(t, "spread", "--short", "5800", "--long", "5790", "--credit", "2.35", "--profit-target", "50")
	require.NoError(t, err)
	assert.Regexp(t, `Width:\s+10\n`, out)
	assert.Regexp(t, `Max Risk:\s+7\.65 \(\$765 per contract\)`, out)
	assert.Regexp(t, `Exit at 50%:\s+1\.18`, out)
	assert.Regexp(t, `Reward/Risk:\s+0\.3072`, out)

	_, err = run(t, "spread", "--short", "5790", "--long", "5800", "--credit", "1")
	assert.Error(t, err)

	_, err = run(t, "spread", "--short", "5800", "--long", "5790")
	assert.Error(t, err, "credit is required")
}

func TestRender(t *testing.T) {
	out, err := run(t, "render", "rsi")
	require.NoError(t, err)
	assert.Contains(t, out, `data-panel="rsi"`)
	assert.Contains(t, out, "32.4")

	out, err = run(t, "render", "page")
	require.NoError(t, err)
	assert.Contains(t, out, `id="rsi-chart"`)
	assert.Contains(t, out, "Monday, September 15, 2025")

	_, err = run(t, "render", "nope")
	assert.ErrorContains(t, err, "unknown panel")
}

func TestExport(t *testing.T) {
	out, err := run(t, "export", "positions")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,entry_date,short_strike"), lines[0])

	path := filepath.Join(t.TempDir(), "out", "signals.csv")
	out, err = run(t, "export", "signals", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "date,rsi,action,outcome\n"))

	_, err = run(t, "export", "trades")
	assert.Error(t, err)
}

type failingClose struct {
	bytes.Buffer
}

func (failingClose) Close() error { return errors.New("disk full") }

func TestExport_ReportsCloseError(t *testing.T) {
	orig := createOutput
	t.Cleanup(func() { createOutput = orig })
	createOutput = func(string) (io.WriteCloser, error) { return &failingClose{}, nil }

	out, err := run(t, "export", "positions", "--out", filepath.Join(t.TempDir(), "positions.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NotContains(t, out, "Wrote")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "spxdash.yaml")
	out, err := run(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = run(t, "config", "validate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Config OK (port 8080, feed simulated, performance fixture, width fixed)")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("feed:\n  type: carrier-pigeon\n"), 0o644))
	_, err = run(t, "config", "validate", "--file", bad)
	assert.ErrorContains(t, err, "feed.type")
}

func TestFixturesFlag(t *testing.T) {
	_, err := run(t, "signal", "--fixtures", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
