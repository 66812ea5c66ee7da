package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"salesdash/pkg/schema"
)

// ParseWarning represents a non-fatal issue encountered while reading a file.
type ParseWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseResult contains the parsed table alongside any warnings.
type ParseResult struct {
	Table    *schema.Table  `json:"table"`
	Encoding string         `json:"encoding,omitempty"`
	Warnings []ParseWarning `json:"warnings"`
}

// ParseDelimited parses delimited text into a table. Headers are cleaned and
// canonicalized; rows with too few or too many fields are padded or
// truncated with a warning, and malformed rows are skipped with a warning.
func ParseDelimited(data []byte, delimiter rune) (*ParseResult, error) {
	decoded, encoding, err := DetectAndDecode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = delimiter
	// Ragged rows are padded or truncated below.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row found")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	var warnings []ParseWarning
	headers, dupWarnings := dedupeHeaders(schema.CanonicalizeHeaders(headers))
	warnings = append(warnings, dupWarnings...)

	headerCount := len(headers)
	table := &schema.Table{Columns: compactHeaders(headers)}
	rowNum := 1 // 1-indexed, header is row 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			warnings = append(warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}

		if len(row) != headerCount {
			if len(row) < headerCount {
				warnings = append(warnings, ParseWarning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), headerCount),
				})
				padded := make([]string, headerCount)
				copy(padded, row)
				row = padded
			} else {
				warnings = append(warnings, ParseWarning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), headerCount),
				})
				row = row[:headerCount]
			}
		}

		record := make(schema.Record, headerCount)
		for i, h := range headers {
			if h == "" {
				continue
			}
			record[h] = row[i]
		}
		table.Rows = append(table.Rows, record)
	}

	return &ParseResult{
		Table:    table,
		Encoding: encoding,
		Warnings: warnings,
	}, nil
}

// dedupeHeaders blanks out repeated header names so the first occurrence
// keeps the column.
func dedupeHeaders(headers []string) ([]string, []ParseWarning) {
	seen := make(map[string]bool, len(headers))
	var warnings []ParseWarning
	for i, h := range headers {
		if h == "" {
			continue
		}
		if seen[h] {
			warnings = append(warnings, ParseWarning{
				Row:     1,
				Message: fmt.Sprintf("duplicate column %q at position %d ignored", h, i+1),
			})
			headers[i] = ""
			continue
		}
		seen[h] = true
	}
	return headers, warnings
}

// compactHeaders drops blanked headers.
func compactHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}
