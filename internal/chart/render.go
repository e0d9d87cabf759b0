package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"projectmap/internal/model"
)

var ErrEmptyHistory = errors.New("chart: price history is empty")

var seriesColors = map[string]color.Color{
	"min": color.RGBA{R: 34, G: 139, B: 34, A: 255},
	"avg": color.RGBA{R: 70, G: 130, B: 180, A: 255},
	"max": color.RGBA{R: 220, G: 20, B: 60, A: 255},
}

// RenderPNG draws the three price series as a line chart. The Y axis uses
// the same range as Mapper so the image matches the popup chart.
func RenderPNG(h model.PriceHistory, title string, width, height vg.Length) ([]byte, error) {
	if h.Len() == 0 {
		return nil, ErrEmptyHistory
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.Text = "Price"
	p.Legend.Top = true

	for _, s := range []struct {
		name   string
		values []float64
	}{
		{"min", h.Min},
		{"avg", h.Avg},
		{"max", h.Max},
	} {
		xys := make(plotter.XYs, len(s.values))
		for i, v := range s.values {
			xys[i].X = float64(i)
			xys[i].Y = v
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("chart: %s series: %w", s.name, err)
		}
		line.Color = seriesColors[s.name]
		points.GlyphStyle.Color = seriesColors[s.name]
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		points.GlyphStyle.Radius = vg.Points(2)
		p.Add(line, points)
		p.Legend.Add(s.name, line)
	}

	m := NewMapper(h, DefaultCanvas())
	lo, hi := m.MinValue(), m.MaxValue()
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	p.Y.Min, p.Y.Max = lo, hi
	p.NominalX(h.Labels...)

	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("chart: encode png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
