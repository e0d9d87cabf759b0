package importer

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var ErrUnsupported = errors.New("unsupported file format: please upload a .csv or .json file")

var mimeFormats = map[string]Format{
	"application/json":         FormatJSON,
	"text/json":                FormatJSON,
	"text/csv":                 FormatCSV,
	"application/csv":          FormatCSV,
	"application/vnd.ms-excel": FormatCSV,
}

// DetectFormat decides how an upload is parsed from its name and declared
// MIME type only, so unsupported files are refused before any read.
func DetectFormat(filename, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	}

	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			if f, ok := mimeFormats[strings.ToLower(mediaType)]; ok {
				return f, nil
			}
		}
	}
	return "", ErrUnsupported
}
