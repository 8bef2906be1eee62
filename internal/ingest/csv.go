// Package ingest turns the spreadsheets and JSON dumps the back office uploads into
// flat rows keyed by their header names.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoRows is returned when an upload has a header but no data (or nothing at all).
	ErrNoRows = errors.New("ingest: no data rows")
	// ErrFormat is returned for payloads that are not CSV or a JSON array of objects.
	ErrFormat = errors.New("ingest: unsupported format")
)

const utf8BOM = "\ufeff"

// DetectDelimiter picks the field separator from a header line. Semicolon wins when it
// outnumbers commas and is at least as common as tabs; tab wins when it outnumbers
// both; comma otherwise.
func DetectDelimiter(line string) rune {
	commas := strings.Count(line, ",")
	semis := strings.Count(line, ";")
	tabs := strings.Count(line, "\t")
	if semis > commas && semis >= tabs {
		return ';'
	}
	if tabs > commas && tabs > semis {
		return '\t'
	}
	return ','
}

// ParseCSV reads a delimited file whose first non-blank line is the header.
// Blank lines are skipped, values are unquoted and trimmed, and rows shorter than the
// header get "" for the missing columns. Columns with an empty header are dropped.
func ParseCSV(r io.Reader) ([]map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	text := strings.TrimPrefix(string(raw), utf8BOM)

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	if len(lines) < 2 {
		return nil, ErrNoRows
	}

	cr := csv.NewReader(bytes.NewBufferString(strings.Join(lines, "\n")))
	cr.Comma = DetectDelimiter(lines[0])
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]any, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			row[h] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}
