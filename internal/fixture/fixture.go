// Package fixture holds the static dataset the dashboard boots from.
package fixture

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"spx-dashboard/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var embedded []byte

// Store is a read-only view over one parsed dataset. Every accessor returns
// a fresh copy so callers can mutate what they get back.
type Store struct {
	data   model.Dataset
	source string
}

// Default parses the embedded dataset.
func Default() (*Store, error) {
	return parse(embedded, "embedded")
}

// Load reads a dataset YAML from path. An empty path means the embedded one.
func Load(path string) (*Store, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return parse(raw, path)
}

func parse(raw []byte, source string) (*Store, error) {
	var ds model.Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", source, err)
	}
	if err := Validate(ds); err != nil {
		return nil, fmt.Errorf("fixture %s invalid: %w", source, err)
	}
	sort.SliceStable(ds.History, func(i, j int) bool {
		return ds.History[i].Date.Before(ds.History[j].Date.Time)
	})
	return &Store{data: ds, source: source}, nil
}

// Source names where the dataset came from ("embedded" or a file path).
func (s *Store) Source() string { return s.source }

// Dataset returns a deep copy of the full dataset.
func (s *Store) Dataset() model.Dataset {
	ds := s.data
	ds.History = append([]model.RSIPoint(nil), s.data.History...)
	ds.Positions = s.WorkingPositions()
	ds.Signals = append([]model.SignalEvent(nil), s.data.Signals...)
	ds.Platforms = append([]model.Platform(nil), s.data.Platforms...)
	return ds
}

// WorkingPositions returns a mutable copy of the seed positions.
func (s *Store) WorkingPositions() []model.Position {
	return append([]model.Position(nil), s.data.Positions...)
}

// Validate checks the invariants the views and reducers rely on.
func Validate(ds model.Dataset) error {
	if ds.Market.RSI < 0 || ds.Market.RSI > 100 {
		return fmt.Errorf("market rsi %.2f outside [0,100]", ds.Market.RSI)
	}
	seen := make(map[int64]bool, len(ds.Positions))
	for _, p := range ds.Positions {
		if seen[p.ID] {
			return fmt.Errorf("duplicate position id %d", p.ID)
		}
		seen[p.ID] = true
		if !p.ShortStrike.GreaterThan(p.LongStrike) {
			return fmt.Errorf("position %d: short strike must be above long strike", p.ID)
		}
		if p.Quantity <= 0 {
			return fmt.Errorf("position %d: quantity must be > 0", p.ID)
		}
		if !p.EntryCredit.IsPositive() {
			return fmt.Errorf("position %d: entry credit must be > 0", p.ID)
		}
		if !p.Status.Valid() {
			return fmt.Errorf("position %d: unknown status %q", p.ID, p.Status)
		}
		if p.DaysToExpiry < 0 {
			return fmt.Errorf("position %d: dte must be >= 0", p.ID)
		}
	}
	return nil
}
