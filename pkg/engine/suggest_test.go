package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/apperrors"
	"salesdash/pkg/schema"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"book_id", "bookid", 1},
		{"café", "cafe", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, editDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, editDistance(tt.b, tt.a), "%q vs %q", tt.b, tt.a)
	}
}

func TestClosestColumn(t *testing.T) {
	assert.Equal(t, "bookid", closestColumn("book_id", []string{"id", "bookid", "book"}))
	assert.Equal(t, "user_ids", closestColumn("user_id", []string{"user_ids", "users_id"}))
	assert.Equal(t, "", closestColumn("book_id", []string{"title", "author"}))
	assert.Equal(t, "", closestColumn("book_id", nil))
}

func TestJoinTables_SuggestsMisspelledKey(t *testing.T) {
	users, orders, books := sampleTables()
	orders.Columns = []string{"id", "user_id", "bookid", "unit_price", "quantity"}

	_, err := JoinTables(users, orders, books)
	require.Error(t, err)

	var joinErr *apperrors.JoinError
	require.ErrorAs(t, err, &joinErr)
	assert.Equal(t, schema.ColBookID, joinErr.Column)
	assert.Equal(t, "bookid", joinErr.Suggestion)
}
