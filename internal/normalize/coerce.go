package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"projectmap/internal/model"
)

// rawText reads a scalar JSON value as text. Null and blank values report
// false so the caller can fall back to the alias or the sentinel.
func rawText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	text := strings.TrimSpace(model.AttributeText(trimmed))
	if text == "" {
		return "", false
	}
	return text, true
}

// rawNumber accepts JSON numbers and numeric strings.
func rawNumber(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, false
		}
		return parseDecimal(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return parseDecimal(string(trimmed))
	default:
		return 0, false
	}
}

// parseDecimal parses a decimal string, accepting a comma as the decimal
// separator. Non-finite results are rejected.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// unwrapString returns the content of a JSON string value, or the raw value
// itself when it is not a string. Used for payloads that may arrive either
// structured or JSON-encoded in a string.
func unwrapString(raw json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return []byte(s)
		}
	}
	return trimmed
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
