package fixture

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spx-dashboard/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDataset(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "embedded", s.Source())

	ds := s.Dataset()
	assert.InDelta(t, 32.4, ds.Market.RSI, 1e-9)
	assert.True(t, ds.Market.Price.Equal(decimal.NewFromInt(5980)))
	assert.Equal(t, model.MarketOpen, ds.Market.Status)

	require.Len(t, ds.History, 31)
	for i := 1; i < len(ds.History); i++ {
		assert.True(t, ds.History[i-1].Date.Before(ds.History[i].Date.Time), "history must be ascending")
	}

	require.Len(t, ds.Positions, 2)
	assert.Equal(t, model.StatusTargetHit, ds.Positions[1].Status)
	assert.True(t, ds.Positions[0].EntryCredit.Equal(decimal.RequireFromString("4.70")))

	assert.Equal(t, 12, ds.Performance.TotalTrades)
	assert.Len(t, ds.Signals, 6)
	assert.Equal(t, model.OutcomeNA, ds.Signals[4].Outcome)

	require.Len(t, ds.Platforms, 3)
	assert.Equal(t, model.APILimited, ds.Platforms[1].APISupport)
	assert.False(t, ds.Platforms[2].SPXSupport)

	assert.Equal(t, 35.0, ds.Params.RSIThreshold)
	assert.True(t, ds.Params.SpreadWidth.Equal(decimal.NewFromInt(10)))
}

func TestWorkingPositionsIsACopy(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	working := s.WorkingPositions()
	working[0].Quantity = 99
	working = append(working, model.Position{ID: 3})

	fresh := s.WorkingPositions()
	assert.Len(t, fresh, 2)
	assert.Equal(t, 2, fresh[0].Quantity)
}

func TestLoadOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.yaml")
	body := `
market: {price: 6000, rsi: 40, status: CLOSED}
historical_rsi:
  - {date: "2025-01-02", rsi: 50, price: 6000}
  - {date: "2025-01-01", rsi: 45, price: 5990}
strategy_params: {rsi_threshold: 30, days_to_expiry: 7, profit_target: 50, position_size: 1, max_positions: 2, spread_width: 5}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	ds := s.Dataset()
	assert.Equal(t, path, s.Source())
	assert.Equal(t, "2025-01-01", ds.History[0].Date.String())
	assert.Empty(t, ds.Positions)
}

func TestLoadRejectsInvalidPositions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	body := `
positions:
  - {id: 1, entry_date: "2025-09-10", short_strike: 5790, long_strike: 5800, expiry: "2025-09-24", quantity: 1, entry_credit: 4, status: OPEN}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short strike")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWritePositionsCSV(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePositionsCSV(&buf, s.WorkingPositions()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id,entry_date,short_strike"))
	assert.Equal(t, "1,2025-09-10,5800,5790,2025-09-24,2,4.70,2.35,470.00,OPEN,10", lines[1])
}

func TestWriteSignalsCSV(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSignalsCSV(&buf, s.Dataset().Signals))
	assert.Contains(t, buf.String(), "2025-07-22,33.5,SKIPPED,N/A")
}
