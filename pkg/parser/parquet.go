package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"salesdash/pkg/schema"
)

// parquetBatchSize is the number of rows read per ReadRows call.
const parquetBatchSize = 256

const secondsPerDay = 24 * 60 * 60

// leafKind selects how a leaf column's physical values are rendered.
type leafKind int

const (
	leafPlain leafKind = iota
	leafDate
	leafTimestampMillis
	leafTimestampMicros
	leafTimestampNanos
)

// ParseColumnar reads a Parquet file into a table. Nested leaf columns are
// named by their dotted path; repeated values are joined with ", ". DATE and
// TIMESTAMP columns render as RFC 3339 in UTC.
func ParseColumnar(data []byte) (*ParseResult, error) {
	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	paths := file.Schema().Columns()
	raw := make([]string, len(paths))
	kinds := make([]leafKind, len(paths))
	for i, path := range paths {
		raw[i] = strings.Join(path, ".")
		if leaf, ok := file.Schema().Lookup(path...); ok {
			kinds[i] = leafKindOf(leaf.Node.Type().LogicalType())
		}
	}
	headers, warnings := dedupeHeaders(schema.CanonicalizeHeaders(raw))

	table := &schema.Table{Columns: compactHeaders(headers)}
	reader := parquet.NewReader(file)
	defer reader.Close()

	rows := make([]parquet.Row, parquetBatchSize)
	for {
		n, err := reader.ReadRows(rows)
		for _, row := range rows[:n] {
			table.Rows = append(table.Rows, parquetRecord(row, headers, kinds))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return &ParseResult{Table: table, Warnings: warnings}, nil
}

// parquetRecord flattens one row of leaf values into a record.
func parquetRecord(row parquet.Row, headers []string, kinds []leafKind) schema.Record {
	values := make(map[int][]string, len(headers))
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(headers) || v.IsNull() {
			continue
		}
		values[col] = append(values[col], parquetValueString(v, kinds[col]))
	}

	record := make(schema.Record, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		record[h] = strings.Join(values[i], ", ")
	}
	return record
}

func leafKindOf(lt *format.LogicalType) leafKind {
	switch {
	case lt == nil:
		return leafPlain
	case lt.Date != nil:
		return leafDate
	case lt.Timestamp != nil:
		unit := lt.Timestamp.Unit
		switch {
		case unit.Millis != nil:
			return leafTimestampMillis
		case unit.Micros != nil:
			return leafTimestampMicros
		case unit.Nanos != nil:
			return leafTimestampNanos
		}
	}
	return leafPlain
}

// parquetValueString renders a value the way a delimited export would.
func parquetValueString(v parquet.Value, kind leafKind) string {
	switch {
	case kind == leafDate && v.Kind() == parquet.Int32:
		return time.Unix(int64(v.Int32())*secondsPerDay, 0).UTC().Format(time.RFC3339)
	case kind == leafTimestampMillis && v.Kind() == parquet.Int64:
		return time.UnixMilli(v.Int64()).UTC().Format(time.RFC3339)
	case kind == leafTimestampMicros && v.Kind() == parquet.Int64:
		return time.UnixMicro(v.Int64()).UTC().Format(time.RFC3339)
	case kind == leafTimestampNanos && v.Kind() == parquet.Int64:
		return time.Unix(0, v.Int64()).UTC().Format(time.RFC3339)
	}

	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return fmt.Sprintf("%v", v)
	}
}
