package engine

import (
	"strconv"

	"salesdash/pkg/schema"
)

// ColumnConflict records a right-hand column whose name was already taken
// by the order line. The left value is kept under the original name and the
// right value moves to RenamedTo.
type ColumnConflict struct {
	Column    string `json:"column"`
	Source    string `json:"source"`
	RenamedTo string `json:"renamedTo"`
}

// planColumns decides the output name of every column merged from a
// right-hand table. The join key, the generic "id" and any column repeating
// the left-hand key name are dropped.
func planColumns(right *schema.Table, keyColumn, leftKey string, used map[string]bool) ([]columnPlan, []ColumnConflict) {
	var plans []columnPlan
	var conflicts []ColumnConflict

	for _, col := range right.Columns {
		if col == keyColumn || col == schema.ColID || col == leftKey {
			continue
		}

		name := col
		if used[name] {
			name = uniqueName(col+"_"+right.Kind.String(), used)
			conflicts = append(conflicts, ColumnConflict{
				Column:    col,
				Source:    right.Kind.String(),
				RenamedTo: name,
			})
		}
		used[name] = true
		plans = append(plans, columnPlan{source: col, target: name})
	}

	return plans, conflicts
}

// columnPlan maps a source column to its name on the order line.
type columnPlan struct {
	source string
	target string
}

// uniqueName appends a counter until name is free.
func uniqueName(name string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if !used[candidate] {
			return candidate
		}
	}
}

