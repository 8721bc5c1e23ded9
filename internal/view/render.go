package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer paints panels and the full page from a Dashboard. Every panel
// template emits a single root element carrying data-panel, so a client
// replaces the whole element and never accumulates stale nodes.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("view").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, p := range Panels {
		if t.Lookup(string(p)) == nil {
			return nil, fmt.Errorf("missing template for panel %q", p)
		}
	}
	return &Renderer{tmpl: t}, nil
}

// MustRenderer is NewRenderer for callers that cannot recover from a broken
// embedded template set.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func panelData(p Panel, d Dashboard) (any, error) {
	switch p {
	case PanelRSI:
		return d.RSI, nil
	case PanelMarketStatus:
		return d.MarketStatus, nil
	case PanelDateTime:
		return d.DateTime, nil
	case PanelPositions:
		return d.Positions, nil
	case PanelPerformance:
		return d.Performance, nil
	case PanelSignals:
		return d.Signals, nil
	case PanelPlatforms:
		return d.Platforms, nil
	case PanelStrategy:
		return d.Strategy, nil
	case PanelRisk, PanelRiskResult:
		return d.Risk, nil
	case PanelModal:
		return d.Modal, nil
	}
	return nil, fmt.Errorf("unknown panel %q", p)
}

func (r *Renderer) Panel(w io.Writer, p Panel, d Dashboard) error {
	data, err := panelData(p, d)
	if err != nil {
		return err
	}
	return r.tmpl.ExecuteTemplate(w, string(p), data)
}

func (r *Renderer) PanelHTML(p Panel, d Dashboard) (string, error) {
	var buf bytes.Buffer
	if err := r.Panel(&buf, p, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Panels renders the named panels into a name -> HTML map.
func (r *Renderer) Panels(d Dashboard, panels ...Panel) (map[string]string, error) {
	out := make(map[string]string, len(panels))
	for _, p := range panels {
		html, err := r.PanelHTML(p, d)
		if err != nil {
			return nil, err
		}
		out[string(p)] = html
	}
	return out, nil
}

func (r *Renderer) Page(w io.Writer, d Dashboard) error {
	return r.tmpl.ExecuteTemplate(w, "index", d)
}
