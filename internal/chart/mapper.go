// Package chart maps a price history onto a pixel canvas for the popup chart
// and renders the same series as a PNG.
package chart

import (
	"math"
	"strconv"
	"strings"

	"projectmap/internal/model"
)

const (
	rangeFloor   = 0.9
	rangeCeiling = 1.1
)

type Canvas struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

func DefaultCanvas() Canvas {
	return Canvas{Width: 320, Height: 160, Padding: 24}
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Mapper converts series indexes and values to canvas coordinates. It holds
// no state beyond what NewMapper derives from its arguments.
type Mapper struct {
	canvas   Canvas
	n        int
	minValue float64
	maxValue float64
}

// NewMapper derives the shared Y range of all three series: 90% of the
// lowest value up to 110% of the highest.
func NewMapper(h model.PriceHistory, canvas Canvas) Mapper {
	m := Mapper{canvas: canvas, n: h.Len()}
	if lo, hi, ok := h.Bounds(); ok {
		m.minValue = lo * rangeFloor
		m.maxValue = hi * rangeCeiling
	}
	return m
}

func (m Mapper) Len() int           { return m.n }
func (m Mapper) MinValue() float64  { return m.minValue }
func (m Mapper) MaxValue() float64  { return m.maxValue }
func (m Mapper) Canvas() Canvas     { return m.canvas }
func (m Mapper) plotWidth() float64 { return m.canvas.Width - 2*m.canvas.Padding }

// X places index i. A single-period series sits on the left edge.
func (m Mapper) X(i int) float64 {
	if m.n <= 1 {
		return m.canvas.Padding
	}
	return m.canvas.Padding + float64(i)/float64(m.n-1)*m.plotWidth()
}

// Y places value v. A flat series (zero range) maps to the vertical centre.
func (m Mapper) Y(v float64) float64 {
	span := m.maxValue - m.minValue
	if span == 0 {
		return m.canvas.Height / 2
	}
	return m.canvas.Height - m.canvas.Padding - (v-m.minValue)/span*(m.canvas.Height-2*m.canvas.Padding)
}

func (m Mapper) Points(series []float64) []Point {
	points := make([]Point, 0, len(series))
	for i, v := range series {
		points = append(points, Point{X: m.X(i), Y: m.Y(v)})
	}
	return points
}

// Path returns an SVG path through the series, or "" when there are fewer
// than two points and no line should be drawn.
func (m Mapper) Path(series []float64) string {
	if len(series) < 2 {
		return ""
	}
	var b strings.Builder
	for i, p := range m.Points(series) {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(formatCoord(p.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Y))
	}
	return b.String()
}

// IndexAt returns the period nearest to pixel x, clamped to the series.
// ok is false for an empty series.
func (m Mapper) IndexAt(x float64) (int, bool) {
	if m.n == 0 {
		return 0, false
	}
	if m.n == 1 || m.plotWidth() <= 0 {
		return 0, true
	}
	pos := math.Round((x - m.canvas.Padding) / m.plotWidth() * float64(m.n-1))
	if math.IsNaN(pos) {
		return 0, true
	}
	// Clamp before converting: huge or infinite positions overflow int.
	return int(math.Max(0, math.Min(float64(m.n-1), pos))), true
}

// IndexAtFraction is IndexAt for a pointer position given as a fraction of
// the canvas width.
func (m Mapper) IndexAtFraction(f float64) (int, bool) {
	return m.IndexAt(f * m.canvas.Width)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
