package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/schema"
)

func TestDetectAndDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		want     string
		encoding string
	}{
		{name: "plain utf-8", input: []byte("id,name"), want: "id,name", encoding: "utf-8"},
		{name: "utf-8 bom", input: append([]byte{0xEF, 0xBB, 0xBF}, "id"...), want: "id", encoding: "utf-8-bom"},
		{name: "utf-16 le", input: []byte{0xFF, 0xFE, 'i', 0, 'd', 0}, want: "id", encoding: "utf-16le"},
		{name: "utf-16 be", input: []byte{0xFE, 0xFF, 0, 'i', 0, 'd'}, want: "id", encoding: "utf-16be"},
		{name: "latin-1 fallback", input: []byte{'c', 'a', 'f', 0xE9}, want: "café", encoding: "latin-1"},
		{name: "empty", input: []byte{}, want: "", encoding: "utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := DetectAndDecode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.encoding, enc)
		})
	}
}

func TestParseDelimited(t *testing.T) {
	data := []byte(" id: ,user_id,book_id, unit_price ,quantity\n1,7,3,$10.00,2\n2,8,4,\"1,234.50\"\n3,9,5,€5,1,extra\n")

	result, err := ParseDelimited(data, ',')
	require.NoError(t, err)

	tbl := result.Table
	assert.Equal(t, []string{"id", "user_id", "book_id", "unit_price", "quantity"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "1", tbl.Rows[0]["id"])
	assert.Equal(t, "$10.00", tbl.Rows[0]["unit_price"])
	assert.Equal(t, "1,234.50", tbl.Rows[1]["unit_price"])
	assert.Equal(t, "", tbl.Rows[1]["quantity"], "short row is padded")
	assert.Equal(t, "1", tbl.Rows[2]["quantity"], "long row is truncated")
	assert.Len(t, result.Warnings, 2)
}

func TestParseDelimited_TabSeparated(t *testing.T) {
	result, err := ParseDelimited([]byte("id\temail\n7\ta@x.com\n"), '\t')
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", result.Table.Rows[0]["email"])
}

func TestParseDelimited_HeaderOnly(t *testing.T) {
	result, err := ParseDelimited([]byte("id,email\n"), ',')
	require.NoError(t, err)
	assert.Empty(t, result.Table.Rows)
	assert.Equal(t, []string{"id", "email"}, result.Table.Columns)
}

func TestParseDelimited_Empty(t *testing.T) {
	_, err := ParseDelimited([]byte(""), ',')
	assert.Error(t, err)
}

func TestParseDelimited_DuplicateHeader(t *testing.T) {
	result, err := ParseDelimited([]byte("id,name,id:\n1,a,2\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, result.Table.Columns)
	assert.Equal(t, "1", result.Table.Rows[0]["id"])
	assert.Len(t, result.Warnings, 1)
}

func TestParseMarkup_NestedList(t *testing.T) {
	data := []byte(`
- id: 1
  title: "The Raven"
  author: [Edgar Allan Poe, "A. Poe"]
  price:
    amount: "10.00"
    currency: USD
- id: 2
  title: Ulalume
  author: ~
  "year:": 1847
`)

	result, err := ParseMarkup(data)
	require.NoError(t, err)

	tbl := result.Table
	assert.Equal(t, []string{"id", "title", "author", "price.amount", "price.currency", "year"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Edgar Allan Poe, A. Poe", tbl.Rows[0]["author"])
	assert.Equal(t, "10.00", tbl.Rows[0]["price.amount"])
	assert.Equal(t, "", tbl.Rows[1]["author"])
	assert.Equal(t, "1847", tbl.Rows[1]["year"])
	assert.Equal(t, "", tbl.Rows[0]["year"])
}

func TestParseMarkup_WrappedRecords(t *testing.T) {
	result, err := ParseMarkup([]byte("users:\n  - id: 7\n    email: a@x.com\n"))
	require.NoError(t, err)
	require.Len(t, result.Table.Rows, 1)
	assert.Equal(t, schema.Record{"id": "7", "email": "a@x.com"}, result.Table.Rows[0])
}

func TestParseMarkup_JSON(t *testing.T) {
	result, err := ParseMarkup([]byte(`[{"id": 3, "author": "A. Poe", "meta": {"pages": 120}}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "author", "meta.pages"}, result.Table.Columns)
	assert.Equal(t, "120", result.Table.Rows[0]["meta.pages"])
}

func TestParseMarkup_SkipsScalarRecords(t *testing.T) {
	result, err := ParseMarkup([]byte("- id: 1\n- oops\n"))
	require.NoError(t, err)
	assert.Len(t, result.Table.Rows, 1)
	assert.Len(t, result.Warnings, 1)
}

func TestParseMarkup_Invalid(t *testing.T) {
	_, err := ParseMarkup([]byte("just a scalar"))
	assert.Error(t, err)

	_, err = ParseMarkup([]byte("key: [unclosed"))
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path   string
		format Format
	}{
		{"users.csv", FormatDelimited},
		{"users.TSV", FormatDelimited},
		{"orders.parquet", FormatColumnar},
		{"books.yaml", FormatMarkup},
		{"books.yml", FormatMarkup},
		{"books.json", FormatMarkup},
		{"books.xlsx", FormatUnknown},
	}
	for _, tt := range tests {
		got, _ := FormatForPath(tt.path)
		assert.Equal(t, tt.format, got, tt.path)
	}
}

func TestParseFile_Unsupported(t *testing.T) {
	_, err := ParseFile("books.xlsx", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
