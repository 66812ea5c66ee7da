package engine

import (
	"salesdash/pkg/apperrors"
	"salesdash/pkg/schema"
)

// LookupIndex provides lookup of right-hand join rows by normalized key.
type LookupIndex struct {
	Kind      schema.DatasetKind
	KeyColumn string
	ByKey     map[string]schema.Record
	Stats     IndexStats
}

// IndexStats contains aggregate statistics about an index build.
type IndexStats struct {
	TotalRecords  int `json:"totalRecords"`
	UniqueKeys    int `json:"uniqueKeys"`
	DuplicateKeys int `json:"duplicateKeys"`
	EmptyKeys     int `json:"emptyKeys"`
}

// BuildLookupIndex indexes a table by the first of keyColumns it carries.
// The first row for a key wins so every lookup yields exactly one row.
// A table with none of the key columns fails with a JoinError naming the
// preferred column.
func BuildLookupIndex(table *schema.Table, keyColumns ...string) (*LookupIndex, error) {
	keyColumn := ""
	for _, c := range keyColumns {
		if table.HasColumn(c) {
			keyColumn = c
			break
		}
	}
	if keyColumn == "" {
		return nil, &apperrors.JoinError{
			Dataset:    table.Kind.String(),
			Column:     keyColumns[0],
			Suggestion: closestColumn(keyColumns[0], table.Columns),
		}
	}

	index := &LookupIndex{
		Kind:      table.Kind,
		KeyColumn: keyColumn,
		ByKey:     make(map[string]schema.Record, len(table.Rows)),
	}

	for _, rec := range table.Rows {
		key := schema.NormalizeKey(rec[keyColumn])
		if key == "" {
			index.Stats.EmptyKeys++
			continue
		}
		if _, exists := index.ByKey[key]; exists {
			index.Stats.DuplicateKeys++
			continue
		}
		index.ByKey[key] = rec
	}

	index.Stats.TotalRecords = len(table.Rows)
	index.Stats.UniqueKeys = len(index.ByKey)

	return index, nil
}

// Lookup returns the row for a raw key value.
func (idx *LookupIndex) Lookup(raw string) (schema.Record, bool) {
	key := schema.NormalizeKey(raw)
	if key == "" {
		return nil, false
	}
	rec, ok := idx.ByKey[key]
	return rec, ok
}
