package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadError_Classification(t *testing.T) {
	inner := errors.New("no such file")
	err := fmt.Errorf("render: %w", &LoadError{Dataset: "users", Path: "/data/users.csv", Err: inner})

	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, inner)
	assert.NotErrorIs(t, err, ErrJoin)
	assert.Contains(t, err.Error(), "users dataset from /data/users.csv")
}

func TestJoinError_MatchesJoinAndLoad(t *testing.T) {
	err := fmt.Errorf("join: %w", &JoinError{Dataset: "orders", Column: "book_id"})

	assert.ErrorIs(t, err, ErrJoin)
	assert.ErrorIs(t, err, ErrLoad)
	assert.EqualError(t, err, `join: orders dataset has no "book_id" column to join on`)

	hinted := &JoinError{Dataset: "orders", Column: "book_id", Suggestion: "bookid"}
	assert.EqualError(t, hinted, `orders dataset has no "book_id" column to join on (found "bookid")`)
}

func TestParseError_Kind(t *testing.T) {
	err := fmt.Errorf("row 3: %w", &ParseError{Kind: ParseTimestamp, Value: "yesterday"})

	assert.ErrorIs(t, err, ErrParse)
	assert.True(t, IsParseKind(err, ParseTimestamp))
	assert.False(t, IsParseKind(err, ParseCurrency))
	assert.False(t, IsParseKind(errors.New("other"), ParseTimestamp))
}
