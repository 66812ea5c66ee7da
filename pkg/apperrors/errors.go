// Package apperrors defines the error taxonomy shared by the loader, the
// join/clean pipeline and the normalizers.
//
// Structural problems (missing files, missing join columns) are fatal for a
// render. Per-value parse problems are classified by kind so callers can
// decide whether to recover (currency, quantity) or propagate (timestamp).
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrLoad  = errors.New("load failed")
	ErrJoin  = errors.New("join key missing")
	ErrParse = errors.New("parse failed")
)

// ParseKind names the field family a ParseError came from.
type ParseKind string

const (
	ParseCurrency  ParseKind = "currency"
	ParseTimestamp ParseKind = "timestamp"
	ParseQuantity  ParseKind = "quantity"
)

// LoadError reports a missing, unreadable, duplicated or unrecognized input file.
type LoadError struct {
	Dataset string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	switch {
	case e.Path != "" && e.Dataset != "":
		return fmt.Sprintf("load %s dataset from %s: %v", e.Dataset, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	case e.Dataset != "":
		return fmt.Sprintf("load %s dataset: %v", e.Dataset, e.Err)
	default:
		return fmt.Sprintf("load: %v", e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// JoinError reports a join column absent from one of the source tables.
// It matches both ErrJoin and ErrLoad: the render has no usable input.
type JoinError struct {
	Dataset string
	Column  string
	// Suggestion is a present column that looks like a misspelling of Column.
	Suggestion string
}

func (e *JoinError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s dataset has no %q column to join on (found %q)", e.Dataset, e.Column, e.Suggestion)
	}
	return fmt.Sprintf("%s dataset has no %q column to join on", e.Dataset, e.Column)
}

func (e *JoinError) Is(target error) bool {
	return target == ErrJoin || target == ErrLoad
}

// ParseError reports a single value that could not be converted.
type ParseError struct {
	Kind  ParseKind
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s %q: %v", e.Kind, e.Value, e.Err)
	}
	return fmt.Sprintf("parse %s %q", e.Kind, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// IsParseKind reports whether err is a ParseError of the given kind.
func IsParseKind(err error, kind ParseKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}
