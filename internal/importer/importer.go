// Package importer reads whole project files. A file is either imported
// completely or rejected with a single error; it is never applied in part.
package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"projectmap/internal/model"
	"projectmap/internal/normalize"
)

var (
	ErrNotArray = errors.New("invalid JSON format: expected an array of projects")
	ErrNoHeader = errors.New("invalid CSV format: missing header row")
)

// RowError reports the first CSV row the parser rejected.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("CSV parse error at row %d: %s", e.Row, e.Reason)
}

// Parse reads a whole file of the given format and normalizes every entry.
func Parse(format Format, r io.Reader) ([]model.Project, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(r)
	case FormatCSV:
		return ParseCSV(r)
	default:
		return nil, ErrUnsupported
	}
}

func ParseJSON(r io.Reader) ([]model.Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("invalid JSON file: %w", syntaxError(trimmed))
		}
		return nil, ErrNotArray
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("invalid JSON file: %w", err)
	}

	items := make([]normalize.Item, 0, len(elements))
	for _, raw := range elements {
		var item normalize.Item
		// Non-object entries normalize to an all-sentinel record.
		if err := json.Unmarshal(raw, &item); err != nil {
			item = normalize.Item{}
		}
		items = append(items, item)
	}
	return normalize.NormalizeAll(items), nil
}

// ParseCSV reads a CSV file with a mandatory header row. Empty lines are
// skipped; the first malformed row aborts the whole import.
func ParseCSV(r io.Reader) ([]model.Project, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, rowError(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	projects := []model.Project{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rowError(err)
		}

		row := make(normalize.Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if _, dup := row[name]; dup {
				continue
			}
			row[name] = record[i]
		}
		projects = append(projects, normalize.NormalizeRow(row))
	}
	return projects, nil
}

func rowError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &RowError{Row: parseErr.StartLine, Reason: parseErr.Err.Error()}
	}
	return fmt.Errorf("read file: %w", err)
}

func syntaxError(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errors.New("unexpected end of input")
}
