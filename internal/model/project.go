package model

import "strings"

const (
	Unknown    = "N/A"
	UnknownURL = "#"
	All        = "All"
)

type Project struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	Province     string        `json:"province"`
	District     string        `json:"district"`
	Category     string        `json:"category"`
	Latitude     *float64      `json:"latitude,omitempty"`
	Longitude    *float64      `json:"longitude,omitempty"`
	Area         string        `json:"area"`
	Units        string        `json:"units"`
	Towers       string        `json:"towers"`
	Investor     string        `json:"investor"`
	Attributes   Attributes    `json:"attributes"`
	PriceHistory *PriceHistory `json:"priceHistory,omitempty"`
}

// Plottable reports whether the project has both coordinates.
func (p Project) Plottable() bool {
	return p.Latitude != nil && p.Longitude != nil
}

func (p Project) InvestorKey() string {
	return NormalizeInvestor(p.Investor)
}

// NormalizeInvestor folds blank investor names into the Unknown bucket so
// grouping and filtering treat every unknown investor alike.
func NormalizeInvestor(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Unknown
	}
	return trimmed
}

type PriceHistory struct {
	Labels []string  `json:"labels"`
	Min    []float64 `json:"min"`
	Avg    []float64 `json:"avg"`
	Max    []float64 `json:"max"`
}

func (h PriceHistory) Len() int {
	return len(h.Labels)
}

// Bounds returns the smallest and largest value across all three series.
func (h PriceHistory) Bounds() (lo, hi float64, ok bool) {
	for _, series := range [][]float64{h.Min, h.Avg, h.Max} {
		for _, v := range series {
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi, ok
}
