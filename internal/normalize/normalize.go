// Package normalize turns heterogeneous project rows into model.Project.
//
// Three input shapes are supported: JSON objects keyed by the English field
// names, JSON objects keyed by the Vietnamese aliases, and CSV rows whose
// header may use either. Every shape has its own mapping function and all of
// them funnel into build, so normalization never fails: unknown or malformed
// fields degrade to the "N/A" sentinel, "#" for the URL, or an absent
// coordinate.
package normalize

import (
	"encoding/json"

	"github.com/google/uuid"

	"projectmap/internal/model"
)

type Shape int

const (
	ShapeLegacyJSON Shape = iota + 1
	ShapeLocalizedJSON
	ShapeCSVRow
)

func (s Shape) String() string {
	switch s {
	case ShapeLegacyJSON:
		return "legacy-json"
	case ShapeLocalizedJSON:
		return "localized-json"
	case ShapeCSVRow:
		return "csv-row"
	default:
		return "unknown"
	}
}

// Item is one JSON object with its values left undecoded.
type Item map[string]json.RawMessage

// Row is one CSV record keyed by header name.
type Row map[string]string

// DetectShape classifies a JSON item. Any canonical key makes it a legacy
// item; an item without one is read through the Vietnamese aliases.
func DetectShape(item Item) Shape {
	for _, key := range canonicalKeys {
		if _, ok := item[key]; ok {
			return ShapeLegacyJSON
		}
	}
	return ShapeLocalizedJSON
}

func Normalize(item Item) model.Project {
	switch DetectShape(item) {
	case ShapeLocalizedJSON:
		return build(fromLocalized(item))
	default:
		return build(fromLegacy(item))
	}
}

func NormalizeRow(row Row) model.Project {
	return build(fromCSV(row))
}

func NormalizeAll(items []Item) []model.Project {
	projects := make([]model.Project, 0, len(items))
	for _, item := range items {
		projects = append(projects, Normalize(item))
	}
	return projects
}

// fields is the shape-independent intermediate every mapping produces.
type fields struct {
	name, url, province, district, category string
	area, units, towers, investor           string
	lat, lng                                *float64
	attributes                              model.Attributes
	history                                 *model.PriceHistory
}

func fromLegacy(item Item) fields {
	return fromJSON(item, func(f field) []string { return []string{f.canonical, f.alias} })
}

func fromLocalized(item Item) fields {
	return fromJSON(item, func(f field) []string { return []string{f.alias} })
}

func fromJSON(item Item, keysFor func(field) []string) fields {
	text := func(f field) string {
		for _, key := range keysFor(f) {
			if v, ok := rawText(item[key]); ok {
				return v
			}
		}
		return ""
	}
	number := func(keys []string) *float64 {
		raw, ok := firstPresent(item, keys)
		if !ok {
			return nil
		}
		v, ok := rawNumber(raw)
		if !ok {
			return nil
		}
		return &v
	}

	out := fields{
		name:     text(nameField),
		url:      text(urlField),
		province: text(provinceField),
		district: text(districtField),
		category: text(categoryField),
		area:     text(areaField),
		units:    text(unitsField),
		towers:   text(towersField),
		investor: text(investorField),
		lat:      number(latitudeKeys),
		lng:      number(longitudeKeys),
	}
	if raw, ok := firstPresent(item, keysFor(attributesField)); ok {
		out.attributes = decodeAttributes(unwrapString(raw))
	}
	if raw, ok := firstPresent(item, keysFor(priceHistoryField)); ok {
		out.history = decodeHistory(unwrapString(raw))
	}
	return out
}

func fromCSV(row Row) fields {
	text := func(f field) string {
		for _, key := range []string{f.canonical, f.alias} {
			if v, ok := cell(row, key); ok {
				return v
			}
		}
		return ""
	}
	number := func(keys []string) *float64 {
		for _, key := range keys {
			v, ok := cell(row, key)
			if !ok {
				continue
			}
			parsed, ok := parseDecimal(v)
			if !ok {
				return nil
			}
			return &parsed
		}
		return nil
	}

	out := fields{
		name:     text(nameField),
		url:      text(urlField),
		province: text(provinceField),
		district: text(districtField),
		category: text(categoryField),
		area:     text(areaField),
		units:    text(unitsField),
		towers:   text(towersField),
		investor: text(investorField),
		lat:      number(latitudeKeys),
		lng:      number(longitudeKeys),
	}
	if v := text(attributesField); v != "" {
		out.attributes = decodeAttributes([]byte(v))
	}
	if v := text(priceHistoryField); v != "" {
		out.history = decodeHistory([]byte(v))
	}
	return out
}

func build(f fields) model.Project {
	p := model.Project{
		ID:           uuid.NewString(),
		Name:         orDefault(f.name, model.Unknown),
		URL:          orDefault(f.url, model.UnknownURL),
		Province:     orDefault(f.province, model.Unknown),
		District:     orDefault(f.district, model.Unknown),
		Category:     orDefault(f.category, model.Unknown),
		Area:         orDefault(f.area, model.Unknown),
		Units:        orDefault(f.units, model.Unknown),
		Towers:       orDefault(f.towers, model.Unknown),
		Investor:     orDefault(f.investor, model.Unknown),
		Attributes:   f.attributes,
		PriceHistory: f.history,
	}
	// A lone coordinate cannot be plotted, so it is dropped with its partner.
	if f.lat != nil && f.lng != nil {
		p.Latitude, p.Longitude = f.lat, f.lng
	}
	return p
}

func firstPresent(item Item, keys []string) (json.RawMessage, bool) {
	for _, key := range keys {
		if _, ok := rawText(item[key]); ok {
			return item[key], true
		}
	}
	return nil, false
}

func cell(row Row, key string) (string, bool) {
	v, ok := row[key]
	if !ok {
		return "", false
	}
	v = trimCell(v)
	return v, v != ""
}
