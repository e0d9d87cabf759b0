package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotObject = errors.New("attributes: not a JSON object")

// Attributes is an insertion-ordered string map for free-form project fields.
type Attributes struct {
	keys   []string
	values map[string]string
}

func (a *Attributes) Set(key, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

func (a Attributes) Get(key string) (string, bool) {
	v, ok := a.values[key]
	return v, ok
}

func (a Attributes) Len() int {
	return len(a.keys)
}

func (a Attributes) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

func (a Attributes) Each(fn func(key, value string)) {
	for _, k := range a.keys {
		fn(k, a.values[k])
	}
}

// Merge appends every entry of other, overwriting values of existing keys.
func (a *Attributes) Merge(other Attributes) {
	other.Each(a.Set)
}

func (a Attributes) Equal(other Attributes) bool {
	if len(a.keys) != len(other.keys) {
		return false
	}
	for i, k := range a.keys {
		if other.keys[i] != k || other.values[k] != a.values[k] {
			return false
		}
	}
	return true
}

func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Attributes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Attributes{}
		return nil
	}
	parsed, err := ParseAttributes(data)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAttributes decodes a JSON object keeping its key order. Values that
// are not strings are kept as their JSON text.
func ParseAttributes(data []byte) (Attributes, error) {
	var out Attributes

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return out, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return out, ErrNotObject
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Attributes{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Attributes{}, fmt.Errorf("attributes: unexpected key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Attributes{}, err
		}
		out.Set(key, AttributeText(raw))
	}
	if _, err := dec.Token(); err != nil {
		return Attributes{}, err
	}
	return out, nil
}

// AttributeText renders one raw JSON value as display text.
func AttributeText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}
	return compact.String()
}
