package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"projectmap/internal/model"
)

const (
	ExportFilename     = "projects.json"
	ExportXLSXFilename = "projects.xlsx"
	exportSheet        = "Projects"
)

var ErrNothingToExport = errors.New("no projects to export")

// exportRecord is the canonical upload shape; exported files import back
// through ParseJSON unchanged. IDs are assigned per import and left out.
type exportRecord struct {
	Name         string              `json:"name"`
	URL          string              `json:"url"`
	Province     string              `json:"province"`
	District     string              `json:"district"`
	Category     string              `json:"category"`
	Latitude     *float64            `json:"latitude,omitempty"`
	Longitude    *float64            `json:"longitude,omitempty"`
	Area         string              `json:"area"`
	Units        string              `json:"units"`
	Towers       string              `json:"towers"`
	Investor     string              `json:"investor"`
	Attributes   model.Attributes    `json:"attributes"`
	PriceHistory *model.PriceHistory `json:"priceHistory,omitempty"`
}

func toExportRecord(p model.Project) exportRecord {
	return exportRecord{
		Name:         p.Name,
		URL:          p.URL,
		Province:     p.Province,
		District:     p.District,
		Category:     p.Category,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Area:         p.Area,
		Units:        p.Units,
		Towers:       p.Towers,
		Investor:     p.Investor,
		Attributes:   p.Attributes,
		PriceHistory: p.PriceHistory,
	}
}

// ExportJSON renders projects as an indented JSON array.
func ExportJSON(projects []model.Project) ([]byte, error) {
	if len(projects) == 0 {
		return nil, ErrNothingToExport
	}
	records := make([]exportRecord, 0, len(projects))
	for _, p := range projects {
		records = append(records, toExportRecord(p))
	}
	return json.MarshalIndent(records, "", "  ")
}

var xlsxHeader = []any{
	"Name", "URL", "Province", "District", "Category", "Latitude", "Longitude",
	"Area", "Units", "Towers", "Investor", "Attributes",
}

// ExportXLSX renders projects as a single-sheet workbook.
func ExportXLSX(projects []model.Project) ([]byte, error) {
	if len(projects) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &xlsxHeader); err != nil {
		return nil, fmt.Errorf("xlsx: header: %w", err)
	}

	for i, p := range projects {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		row := []any{
			p.Name, p.URL, p.Province, p.District, p.Category,
			coordinateCell(p.Latitude), coordinateCell(p.Longitude),
			p.Area, p.Units, p.Towers, p.Investor, attributeLines(p.Attributes),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx: row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

func coordinateCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func attributeLines(attrs model.Attributes) string {
	lines := make([]string, 0, attrs.Len())
	attrs.Each(func(key, value string) {
		lines = append(lines, key+": "+value)
	})
	return strings.Join(lines, "\n")
}
