package normalize

import (
	"encoding/json"
	"strings"

	"projectmap/internal/model"
)

// decodeAttributes merges an attribute payload. Anything that is not a JSON
// object is dropped without failing the record.
func decodeAttributes(data []byte) model.Attributes {
	attrs, err := model.ParseAttributes(data)
	if err != nil {
		return model.Attributes{}
	}
	return attrs
}

type rawHistory struct {
	Labels []json.RawMessage `json:"labels"`
	Min    []json.RawMessage `json:"min"`
	Avg    []json.RawMessage `json:"avg"`
	Max    []json.RawMessage `json:"max"`
}

// decodeHistory reads a price history object. Series are cut to the shortest
// length and periods with a non-numeric value are skipped, so the four
// arrays of the result always line up.
func decodeHistory(data []byte) *model.PriceHistory {
	var raw rawHistory
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	n := min(len(raw.Labels), len(raw.Min), len(raw.Avg), len(raw.Max))
	if n == 0 {
		return nil
	}

	h := &model.PriceHistory{
		Labels: make([]string, 0, n),
		Min:    make([]float64, 0, n),
		Avg:    make([]float64, 0, n),
		Max:    make([]float64, 0, n),
	}
	for i := 0; i < n; i++ {
		lo, okLo := rawNumber(raw.Min[i])
		avg, okAvg := rawNumber(raw.Avg[i])
		hi, okHi := rawNumber(raw.Max[i])
		if !okLo || !okAvg || !okHi {
			continue
		}
		label, _ := rawText(raw.Labels[i])
		h.Labels = append(h.Labels, label)
		h.Min = append(h.Min, lo)
		h.Avg = append(h.Avg, avg)
		h.Max = append(h.Max, hi)
	}
	if h.Len() == 0 {
		return nil
	}
	return h
}

func trimCell(v string) string {
	return strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
}
