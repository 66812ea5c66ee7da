package schema

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectKinds(t *testing.T) {
	assert.Equal(t, []DatasetKind{KindUsers}, DetectKinds("/data/DATA1/users.csv"))
	assert.Equal(t, []DatasetKind{KindOrders}, DetectKinds("Orders_2024.parquet"))
	assert.Equal(t, []DatasetKind{KindBooks}, DetectKinds("books.yaml"))
	assert.Empty(t, DetectKinds("readme.md"))
	assert.Len(t, DetectKinds("users_orders.csv"), 2)
}

func TestDatasetKind_String(t *testing.T) {
	assert.Equal(t, "users", KindUsers.String())
	assert.Equal(t, "orders", KindOrders.String())
	assert.Equal(t, "books", KindBooks.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestCleanColumnName(t *testing.T) {
	assert.Equal(t, "id", CleanColumnName("  id: "))
	assert.Equal(t, "user_id", CleanColumnName(":user_id"))
	assert.Equal(t, "full name", CleanColumnName("full name"))
}

func TestCanonicalizeHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    []string
	}{
		{
			name:    "already canonical",
			headers: []string{"id", "user_id", "book_id", "unit_price", "quantity", "timestamp"},
			want:    []string{"id", "user_id", "book_id", "unit_price", "quantity", "timestamp"},
		},
		{
			name:    "alias spellings",
			headers: []string{" ID: ", "UserId", "Book-ID", "Unit Price", "qty"},
			want:    []string{"id", "user_id", "book_id", "unit_price", "quantity"},
		},
		{
			name:    "canonical spelling wins over alias",
			headers: []string{"Email", "email"},
			want:    []string{"Email", "email"},
		},
		{
			name:    "unknown headers pass through",
			headers: []string{"Favourite Genre ", "name"},
			want:    []string{"Favourite Genre", "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalizeHeaders(tt.headers))
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "7", NormalizeKey(" 7 "))
	assert.Equal(t, "7", NormalizeKey("7.0"))
	assert.Equal(t, "7.5", NormalizeKey("7.5"))
	assert.Equal(t, "abc-1", NormalizeKey("abc-1"))
	assert.Equal(t, "", NormalizeKey("  "))
}

func TestNormalizeAttribute(t *testing.T) {
	tests := []struct {
		attr  ContactAttribute
		input string
		want  string
	}{
		{AttrEmail, " Alice@Example.COM ", "alice@example.com"},
		{AttrEmail, "   ", ""},
		{AttrPhone, "+1 (555) 010-2030", "+15550102030"},
		{AttrPhone, "555.010.2030", "5550102030"},
		{AttrPhone, "n/a", ""},
		{AttrPhone, "+", ""},
		{AttrAddress, "12  Rue de l'Église,  Paris", "12 rue de l'eglise, paris"},
		{AttrAddress, "", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeAttribute(tt.attr, tt.input), "%s %q", tt.attr, tt.input)
	}
}

func TestTable_HasColumn(t *testing.T) {
	tbl := &Table{Columns: []string{"id", "email"}}
	assert.True(t, tbl.HasColumn("email"))
	assert.False(t, tbl.HasColumn("phone"))
}

func TestLessID(t *testing.T) {
	ids := []string{"guest", "10", "b", "2", "a", "-1"}
	sort.Slice(ids, func(i, j int) bool { return LessID(ids[i], ids[j]) })
	assert.Equal(t, []string{"-1", "2", "10", "a", "b", "guest"}, ids)
}
