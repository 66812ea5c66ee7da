package engine

import (
	"encoding/json"
	"fmt"
	"sort"

	"salesdash/pkg/schema"
)

// MappingEntry is one row of the canonical identity mapping.
type MappingEntry struct {
	OriginalUserID string `json:"original_user_id"`
	UniqueUserID   int    `json:"unique_user_id"`
}

// serializedMapping is the JSON form of IdentityMapping: a flat entry list
// plus the count. ByUser and Components are rebuilt on decode.
type serializedMapping struct {
	Entries []MappingEntry `json:"entries"`
	Count   int            `json:"count"`
}

// Entries returns the mapping ordered by canonical identity, then user id.
func (m *IdentityMapping) Entries() []MappingEntry {
	entries := make([]MappingEntry, 0, len(m.ByUser))
	for i, members := range m.Components {
		for _, userID := range members {
			entries = append(entries, MappingEntry{OriginalUserID: userID, UniqueUserID: i + 1})
		}
	}
	return entries
}

func (m *IdentityMapping) MarshalJSON() ([]byte, error) {
	return json.Marshal(serializedMapping{Entries: m.Entries(), Count: m.Count})
}

// UnmarshalJSON rebuilds ByUser and Components from the entry list.
func (m *IdentityMapping) UnmarshalJSON(data []byte) error {
	var sm serializedMapping
	if err := json.Unmarshal(data, &sm); err != nil {
		return fmt.Errorf("failed to deserialize identity mapping: %w", err)
	}

	byUser := make(map[string]int, len(sm.Entries))
	groups := make(map[int][]string)
	maxID := 0
	for _, e := range sm.Entries {
		if e.UniqueUserID < 1 {
			return fmt.Errorf("invalid canonical identity %d for user %q", e.UniqueUserID, e.OriginalUserID)
		}
		byUser[e.OriginalUserID] = e.UniqueUserID
		groups[e.UniqueUserID] = append(groups[e.UniqueUserID], e.OriginalUserID)
		if e.UniqueUserID > maxID {
			maxID = e.UniqueUserID
		}
	}

	components := make([][]string, maxID)
	for id, members := range groups {
		sort.Slice(members, func(i, j int) bool { return schema.LessID(members[i], members[j]) })
		components[id-1] = members
	}

	m.ByUser = byUser
	m.Components = components
	m.Count = len(groups)
	return nil
}

// SerializeLines renders cleaned lines as JSON. Attribute maps marshal with
// sorted keys, so equal inputs produce identical bytes.
func SerializeLines(lines []schema.CleanedLine) ([]byte, error) {
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize order lines: %w", err)
	}
	return data, nil
}
