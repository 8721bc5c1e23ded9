package analysis

import (
	"fmt"
	"strings"
	"time"

	"spx-dashboard/internal/model"
)

// MarketHours is a local-time trading window applied Monday to Friday.
// It is not timezone or holiday aware.
type MarketHours struct {
	openMins  int
	closeMins int
}

// DefaultMarketHours is [09:00, 16:00), i.e. hour in 9..15.
var DefaultMarketHours = MarketHours{openMins: 9 * 60, closeMins: 16 * 60}

// ParseMarketHours builds a window from "HH:MM" strings. open must be
// before close.
func ParseMarketHours(open, close string) (MarketHours, error) {
	o, err := parseHHMM(open)
	if err != nil {
		return MarketHours{}, err
	}
	c, err := parseHHMM(close)
	if err != nil {
		return MarketHours{}, err
	}
	if o >= c {
		return MarketHours{}, fmt.Errorf("market open %q must be before close %q", open, close)
	}
	return MarketHours{openMins: o, closeMins: c}, nil
}

// IsOpen reports whether t falls on a weekday inside the window, using t's
// own location.
func (h MarketHours) IsOpen(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	mins := t.Hour()*60 + t.Minute()
	return inWindow(mins, h.openMins, h.closeMins)
}

func (h MarketHours) Status(t time.Time) model.MarketStatus {
	if h.IsOpen(t) {
		return model.MarketOpen
	}
	return model.MarketClosed
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// inWindow checks whether tMins is in [start, end) on a 24h clock.
func inWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	return tMins >= start || tMins < end
}
