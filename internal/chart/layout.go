package chart

import "projectmap/internal/model"

type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Points []Point   `json:"points"`
	Path   string    `json:"path"`
}

// Hover describes the period under the pointer.
type Hover struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Min   float64 `json:"min"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
}

// Layout is everything the popup needs to draw one price chart.
type Layout struct {
	Canvas   Canvas   `json:"canvas"`
	Labels   []string `json:"labels"`
	MinValue float64  `json:"minValue"`
	MaxValue float64  `json:"maxValue"`
	Series   []Series `json:"series"`
	Hover    *Hover   `json:"hover,omitempty"`
}

func NewLayout(h model.PriceHistory, canvas Canvas) Layout {
	m := NewMapper(h, canvas)
	layout := Layout{
		Canvas:   canvas,
		Labels:   h.Labels,
		MinValue: m.MinValue(),
		MaxValue: m.MaxValue(),
	}
	for _, s := range []struct {
		name   string
		values []float64
	}{
		{"min", h.Min},
		{"avg", h.Avg},
		{"max", h.Max},
	} {
		layout.Series = append(layout.Series, Series{
			Name:   s.name,
			Values: s.values,
			Points: m.Points(s.values),
			Path:   m.Path(s.values),
		})
	}
	return layout
}

// HoverAt fills the hover details for the period nearest to pixel x.
func HoverAt(h model.PriceHistory, canvas Canvas, x float64) (Hover, bool) {
	m := NewMapper(h, canvas)
	idx, ok := m.IndexAt(x)
	if !ok {
		return Hover{}, false
	}
	return Hover{
		Index: idx,
		Label: h.Labels[idx],
		X:     m.X(idx),
		Min:   h.Min[idx],
		Avg:   h.Avg[idx],
		Max:   h.Max[idx],
	}, true
}
