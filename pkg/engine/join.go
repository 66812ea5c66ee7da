package engine

import (
	"salesdash/pkg/apperrors"
	"salesdash/pkg/schema"
)

// JoinResult contains the denormalized order lines.
type JoinResult struct {
	Columns   []string         `json:"columns"`
	Lines     []schema.Record  `json:"lines"`
	Conflicts []ColumnConflict `json:"conflicts"`
	Stats     JoinStats        `json:"stats"`

	// ContactColumns names the line column holding each contact attribute
	// taken from the users table. Attributes the users table lacks are absent.
	ContactColumns map[schema.ContactAttribute]string `json:"contactColumns"`
}

// HasColumn reports whether the joined table carries the named column.
func (r *JoinResult) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// JoinStats contains aggregate statistics about the join operation.
type JoinStats struct {
	Orders            int `json:"orders"`
	BookMatches       int `json:"bookMatches"`
	BookMisses        int `json:"bookMisses"`
	UserMatches       int `json:"userMatches"`
	UserMisses        int `json:"userMisses"`
	DuplicateBookKeys int `json:"duplicateBookKeys"`
	DuplicateUserKeys int `json:"duplicateUserKeys"`
}

// JoinTables left-joins orders to books on book id, then to users on user id:
//  1. Orders must carry book_id and user_id; books and users must carry id
//     (or book_id / user_id). A missing key column is a JoinError.
//  2. The order's own id becomes order_id; the right-hand id columns are
//     dropped since their values already sit in book_id and user_id.
//  3. Right-hand columns whose names are taken are renamed with the source
//     kind as suffix and reported as conflicts.
//  4. Every order yields exactly one line. Unmatched book or user columns are
//     left empty; the order is never dropped.
func JoinTables(users, orders, books *schema.Table) (*JoinResult, error) {
	for _, col := range []string{schema.ColBookID, schema.ColUserID} {
		if !orders.HasColumn(col) {
			return nil, &apperrors.JoinError{
				Dataset:    schema.KindOrders.String(),
				Column:     col,
				Suggestion: closestColumn(col, orders.Columns),
			}
		}
	}

	bookIndex, err := BuildLookupIndex(books, schema.ColID, schema.ColBookID)
	if err != nil {
		return nil, err
	}
	userIndex, err := BuildLookupIndex(users, schema.ColID, schema.ColUserID)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	left := orderColumns(orders)
	result := &JoinResult{}
	for _, p := range left {
		used[p.target] = true
		result.Columns = append(result.Columns, p.target)
	}

	bookPlan, bookConflicts := planColumns(books, bookIndex.KeyColumn, schema.ColBookID, used)
	userPlan, userConflicts := planColumns(users, userIndex.KeyColumn, schema.ColUserID, used)
	for _, p := range bookPlan {
		result.Columns = append(result.Columns, p.target)
	}
	for _, p := range userPlan {
		result.Columns = append(result.Columns, p.target)
	}
	result.Conflicts = append(bookConflicts, userConflicts...)
	result.ContactColumns = contactColumns(userPlan)

	result.Lines = make([]schema.Record, 0, len(orders.Rows))
	for _, order := range orders.Rows {
		line := make(schema.Record, len(result.Columns))
		for _, p := range left {
			line[p.target] = order[p.source]
		}

		book, ok := bookIndex.Lookup(order[schema.ColBookID])
		if ok {
			result.Stats.BookMatches++
		} else {
			result.Stats.BookMisses++
		}
		copyPlanned(line, book, bookPlan)

		user, ok := userIndex.Lookup(order[schema.ColUserID])
		if ok {
			result.Stats.UserMatches++
		} else {
			result.Stats.UserMisses++
		}
		copyPlanned(line, user, userPlan)

		result.Lines = append(result.Lines, line)
	}

	result.Stats.Orders = len(orders.Rows)
	result.Stats.DuplicateBookKeys = bookIndex.Stats.DuplicateKeys
	result.Stats.DuplicateUserKeys = userIndex.Stats.DuplicateKeys

	return result, nil
}

// IdentityRows projects each line onto user_id and the user-owned contact
// attributes under their canonical names. Same-named columns from orders or
// books are never read.
func (r *JoinResult) IdentityRows() []schema.Record {
	rows := make([]schema.Record, 0, len(r.Lines))
	for _, line := range r.Lines {
		row := schema.Record{schema.ColUserID: line[schema.ColUserID]}
		for attr, col := range r.ContactColumns {
			row[string(attr)] = line[col]
		}
		rows = append(rows, row)
	}
	return rows
}

// contactColumns maps each contact attribute in the users plan to the name it
// was given on the line.
func contactColumns(userPlan []columnPlan) map[schema.ContactAttribute]string {
	cols := make(map[schema.ContactAttribute]string, len(schema.ContactAttributes))
	for _, p := range userPlan {
		for _, attr := range schema.ContactAttributes {
			if p.source == string(attr) {
				cols[attr] = p.target
			}
		}
	}
	return cols
}

// orderColumns keeps every order column, renaming the generic id to
// order_id. When the orders already carry order_id the generic id is dropped.
func orderColumns(orders *schema.Table) []columnPlan {
	hasOrderID := orders.HasColumn(schema.ColOrderID)
	plans := make([]columnPlan, 0, len(orders.Columns))
	for _, col := range orders.Columns {
		if col == schema.ColID {
			if hasOrderID {
				continue
			}
			plans = append(plans, columnPlan{source: col, target: schema.ColOrderID})
			continue
		}
		plans = append(plans, columnPlan{source: col, target: col})
	}
	return plans
}

// copyPlanned writes planned columns from src into line; a nil src leaves
// them empty.
func copyPlanned(line, src schema.Record, plans []columnPlan) {
	for _, p := range plans {
		if src == nil {
			line[p.target] = ""
			continue
		}
		line[p.target] = src[p.source]
	}
}
