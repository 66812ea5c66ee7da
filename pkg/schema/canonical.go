package schema

import (
	"path/filepath"
	"strings"
)

// Canonical column names used by the join, clean and report stages.
const (
	ColID        = "id"
	ColOrderID   = "order_id"
	ColUserID    = "user_id"
	ColBookID    = "book_id"
	ColUnitPrice = "unit_price"
	ColQuantity  = "quantity"
	ColTimestamp = "timestamp"
	ColEmail     = "email"
	ColPhone     = "phone"
	ColAddress   = "address"
	ColAuthor    = "author"
	ColTitle     = "title"

	// Derived by the clean stage.
	ColDateKey      = "date_key"
	ColPaidAmount   = "paid_amount_usd"
	ColUniqueUserID = "unique_user_id"
)

// DatasetKind identifies which of the three source tables a file holds.
type DatasetKind int

const (
	KindUnknown DatasetKind = iota
	KindUsers
	KindOrders
	KindBooks
)

// AllKinds lists the kinds every dataset directory must provide, once each.
var AllKinds = []DatasetKind{KindUsers, KindOrders, KindBooks}

func (k DatasetKind) String() string {
	switch k {
	case KindUsers:
		return "users"
	case KindOrders:
		return "orders"
	case KindBooks:
		return "books"
	default:
		return "unknown"
	}
}

// DetectKinds returns every kind whose name appears in the file's base name.
// More than one result means the name is ambiguous.
func DetectKinds(path string) []DatasetKind {
	base := strings.ToLower(filepath.Base(path))
	var kinds []DatasetKind
	for _, k := range AllKinds {
		if strings.Contains(base, k.String()) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// ContactAttribute is a user attribute that can link two user records.
type ContactAttribute string

const (
	AttrEmail   ContactAttribute = ColEmail
	AttrPhone   ContactAttribute = ColPhone
	AttrAddress ContactAttribute = ColAddress
)

// ContactAttributes is the fixed set of linking attributes, in edge order.
var ContactAttributes = []ContactAttribute{AttrEmail, AttrPhone, AttrAddress}

// Record is one raw row: column name to untyped value.
type Record map[string]string

// Table is a loaded source file with its column order preserved.
type Table struct {
	Kind    DatasetKind `json:"kind"`
	Source  string      `json:"source"`
	Columns []string    `json:"columns"`
	Rows    []Record    `json:"rows"`
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// CleanedLine is one joined, normalized order record ready for aggregation.
type CleanedLine struct {
	OrderID    string  `json:"order_id"`
	BookID     string  `json:"book_id"`
	UserID     string  `json:"user_id"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   float64 `json:"quantity"`
	PaidAmount float64 `json:"paid_amount_usd"`
	// DateKey is YYYY-MM-DD, or empty when the source had no timestamp.
	DateKey      string `json:"date_key,omitempty"`
	UniqueUserID int    `json:"unique_user_id,omitempty"`
	// Attributes holds every passthrough book and user column.
	Attributes Record `json:"attributes"`
}

// Attr returns a passthrough attribute, or "" when absent.
func (l *CleanedLine) Attr(column string) string {
	return l.Attributes[column]
}
