package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format of an uploaded file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseJSON reads a top-level JSON array of objects.
func ParseJSON(r io.Reader) ([]map[string]any, error) {
	var rows []map[string]any
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of objects: %v", ErrFormat, err)
	}
	out := rows[:0]
	for _, row := range rows {
		if row != nil {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// FormatOf guesses the upload format from its file name, falling back to sniffing
// the first non-space byte.
func FormatOf(name string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".csv", ".tsv", ".txt":
		return FormatCSV
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatCSV
}

// Parse dispatches to ParseCSV or ParseJSON.
func Parse(f Format, r io.Reader) ([]map[string]any, error) {
	switch f {
	case FormatCSV:
		return ParseCSV(r)
	case FormatJSON:
		return ParseJSON(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, f)
}

// NormalizeKey folds header-style keys ("Company Full Name") and JSON keys
// ("company_full_name") to the same form so either can be looked up.
func NormalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch r {
		case ' ', '\t', '_', '\u00a0':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
