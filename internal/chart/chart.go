// Package chart builds the Chart.js line configuration for the RSI history
// and keeps the threshold series in step with the strategy.
package chart

import (
	"sync"

	"spx-dashboard/internal/model"
)

const (
	rsiColor      = "#1FB8CD"
	rsiFill       = "rgba(31, 184, 205, 0.1)"
	signalColor   = "#DB4545"
	gridColor     = "rgba(255, 255, 255, 0.1)"
	labelLayout   = "Jan 2"
	rsiLabel      = "RSI"
	signalLabel   = "Signal Line"
	thresholdSlot = 1
)

// Point is one labelled value of the RSI series.
type Point struct {
	Label string
	Value float64
}

// SeriesFromHistory labels each day as "Aug 15". history must be ordered.
func SeriesFromHistory(history []model.RSIPoint) []Point {
	out := make([]Point, len(history))
	for i, h := range history {
		out[i] = Point{Label: h.Date.Format(labelLayout), Value: h.RSI}
	}
	return out
}

type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	Fill            bool      `json:"fill"`
	Tension         float64   `json:"tension,omitempty"`
	BorderDash      []int     `json:"borderDash,omitempty"`
	PointRadius     *int      `json:"pointRadius,omitempty"`
}

type Options struct {
	Responsive          bool    `json:"responsive"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio"`
	Plugins             Plugins `json:"plugins"`
	Scales              Scales  `json:"scales"`
}

type Plugins struct {
	Legend Legend `json:"legend"`
}

type Legend struct {
	Display  bool   `json:"display"`
	Position string `json:"position"`
}

type Scales struct {
	Y Axis `json:"y"`
	X Axis `json:"x"`
}

type Axis struct {
	BeginAtZero *bool    `json:"beginAtZero,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Grid        Grid     `json:"grid"`
}

type Grid struct {
	Color string `json:"color"`
}

// Handle is a drawn chart. Revision counts redraws.
type Handle struct {
	mu        sync.RWMutex
	container string
	cfg       Config
	threshold float64
	revision  int
}

// Initialize draws series into container with a constant threshold line of
// the same length.
func Initialize(container string, series []Point, threshold float64) *Handle {
	labels := make([]string, len(series))
	values := make([]float64, len(series))
	for i, p := range series {
		labels[i] = p.Label
		values[i] = p.Value
	}

	noPoints := 0
	no := false
	lo, hi := 0.0, 100.0
	cfg := Config{
		Type: "line",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{
				{
					Label:           rsiLabel,
					Data:            values,
					BorderColor:     rsiColor,
					BackgroundColor: rsiFill,
					Fill:            true,
					Tension:         0.4,
				},
				{
					Label:       signalLabel,
					Data:        constant(threshold, len(series)),
					BorderColor: signalColor,
					BorderDash:  []int{5, 5},
					PointRadius: &noPoints,
				},
			},
		},
		Options: Options{
			Responsive: true,
			Plugins:    Plugins{Legend: Legend{Display: true, Position: "top"}},
			Scales: Scales{
				Y: Axis{BeginAtZero: &no, Min: &lo, Max: &hi, Grid: Grid{Color: gridColor}},
				X: Axis{Grid: Grid{Color: gridColor}},
			},
		},
	}
	return &Handle{container: container, cfg: cfg, threshold: threshold, revision: 1}
}

// Update replaces the threshold series in place and redraws.
func (h *Handle) Update(threshold float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg.Data.Datasets[thresholdSlot].Data = constant(threshold, len(h.cfg.Data.Labels))
	h.threshold = threshold
	h.revision++
}

// Update is the free-function form of Handle.Update.
func Update(h *Handle, threshold float64) {
	h.Update(threshold)
}

func (h *Handle) Container() string { return h.container }

func (h *Handle) Threshold() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.threshold
}

func (h *Handle) Revision() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.revision
}

// Config returns a copy of the current configuration.
func (h *Handle) Config() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c := h.cfg
	c.Data.Labels = append([]string(nil), h.cfg.Data.Labels...)
	c.Data.Datasets = make([]Dataset, len(h.cfg.Data.Datasets))
	for i, ds := range h.cfg.Data.Datasets {
		ds.Data = append([]float64(nil), ds.Data...)
		c.Data.Datasets[i] = ds
	}
	return c
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
