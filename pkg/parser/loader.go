package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"salesdash/pkg/apperrors"
	"salesdash/pkg/schema"
)

var (
	ErrMissingDataset    = errors.New("dataset file not found")
	ErrDuplicateDataset  = errors.New("more than one file for dataset")
	ErrAmbiguousFileName = errors.New("file name matches more than one dataset")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Format is the physical encoding family of a source file.
type Format int

const (
	FormatUnknown Format = iota
	FormatDelimited
	FormatColumnar
	FormatMarkup
)

func (f Format) String() string {
	switch f {
	case FormatDelimited:
		return "delimited"
	case FormatColumnar:
		return "columnar"
	case FormatMarkup:
		return "markup"
	default:
		return "unknown"
	}
}

// FormatForPath maps a file extension to its format and, for delimited
// text, its field separator.
func FormatForPath(path string) (Format, rune) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatDelimited, ','
	case ".tsv":
		return FormatDelimited, '\t'
	case ".parquet":
		return FormatColumnar, 0
	case ".yaml", ".yml", ".json":
		return FormatMarkup, 0
	default:
		return FormatUnknown, 0
	}
}

// ParseFile parses file contents according to the path's extension.
func ParseFile(path string, data []byte) (*ParseResult, error) {
	format, delimiter := FormatForPath(path)
	switch format {
	case FormatDelimited:
		return ParseDelimited(data, delimiter)
	case FormatColumnar:
		return ParseColumnar(data)
	case FormatMarkup:
		return ParseMarkup(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Dataset holds the three source tables of one dataset directory.
type Dataset struct {
	Dir    string
	Users  *schema.Table
	Orders *schema.Table
	Books  *schema.Table
}

// Table returns the table for a kind, or nil.
func (d *Dataset) Table(kind schema.DatasetKind) *schema.Table {
	switch kind {
	case schema.KindUsers:
		return d.Users
	case schema.KindOrders:
		return d.Orders
	case schema.KindBooks:
		return d.Books
	default:
		return nil
	}
}

func (d *Dataset) set(kind schema.DatasetKind, t *schema.Table) {
	switch kind {
	case schema.KindUsers:
		d.Users = t
	case schema.KindOrders:
		d.Orders = t
	case schema.KindBooks:
		d.Books = t
	}
}

// Loader discovers and reads the users, orders and books files of a dataset.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger.Named("loader")}
}

// LoadDir reads one file per dataset kind from dir. Kinds are detected by
// file name; files naming no kind are ignored. Any missing, duplicated,
// ambiguous, unsupported or unreadable dataset file fails the whole load
// with a LoadError.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &apperrors.LoadError{Path: dir, Err: err}
	}

	ds := &Dataset{Dir: dir}
	sources := make(map[schema.DatasetKind]string, len(schema.AllKinds))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		kinds := schema.DetectKinds(name)
		switch len(kinds) {
		case 0:
			l.logger.Debug("Ignoring file with no dataset kind", zap.String("path", path))
			continue
		case 1:
		default:
			return nil, &apperrors.LoadError{Path: path, Err: ErrAmbiguousFileName}
		}
		kind := kinds[0]

		if prev, ok := sources[kind]; ok {
			return nil, &apperrors.LoadError{
				Dataset: kind.String(),
				Path:    path,
				Err:     fmt.Errorf("%w: already loaded %s", ErrDuplicateDataset, prev),
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := l.LoadFile(path, kind)
		if err != nil {
			return nil, err
		}
		sources[kind] = path
		ds.set(kind, table)
	}

	for _, kind := range schema.AllKinds {
		if _, ok := sources[kind]; !ok {
			return nil, &apperrors.LoadError{Dataset: kind.String(), Path: dir, Err: ErrMissingDataset}
		}
	}

	return ds, nil
}

// LoadFile reads and parses a single file as the given kind.
func (l *Loader) LoadFile(path string, kind schema.DatasetKind) (*schema.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperrors.LoadError{Dataset: kind.String(), Path: path, Err: err}
	}

	result, err := ParseFile(path, data)
	if err != nil {
		return nil, &apperrors.LoadError{Dataset: kind.String(), Path: path, Err: err}
	}

	for _, w := range result.Warnings {
		l.logger.Warn("Recovered from malformed input",
			zap.String("path", path),
			zap.Int("row", w.Row),
			zap.String("detail", w.Message))
	}

	table := result.Table
	table.Kind = kind
	table.Source = path

	format, _ := FormatForPath(path)
	l.logger.Debug("Loaded dataset file",
		zap.String("kind", kind.String()),
		zap.String("path", path),
		zap.String("format", format.String()),
		zap.String("encoding", result.Encoding),
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Columns)))

	return table, nil
}
