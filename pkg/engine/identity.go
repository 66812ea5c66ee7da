package engine

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"salesdash/pkg/schema"
)

const userNodePrefix = "uid:"

// IdentityMapping maps original user ids to canonical identity numbers.
type IdentityMapping struct {
	ByUser map[string]int
	// Components lists the user ids of each identity; Components[n-1] holds
	// the members of canonical identity n, sorted.
	Components [][]string
	Count      int
}

// Lookup returns the canonical identity of a user id.
func (m *IdentityMapping) Lookup(userID string) (int, bool) {
	n, ok := m.ByUser[schema.NormalizeKey(userID)]
	return n, ok
}

// identityGraph is an undirected graph over kind-qualified node keys.
type identityGraph struct {
	g    *simple.UndirectedGraph
	ids  map[string]int64
	keys []string
}

func newIdentityGraph() *identityGraph {
	return &identityGraph{
		g:   simple.NewUndirectedGraph(),
		ids: make(map[string]int64),
	}
}

// node returns the graph id for key, adding the node on first use.
func (ig *identityGraph) node(key string) int64 {
	if id, ok := ig.ids[key]; ok {
		return id
	}
	id := int64(len(ig.keys))
	ig.ids[key] = id
	ig.keys = append(ig.keys, key)
	ig.g.AddNode(simple.Node(id))
	return id
}

func (ig *identityGraph) link(a, b int64) {
	ig.g.SetEdge(ig.g.NewEdge(simple.Node(a), simple.Node(b)))
}

// ResolveIdentities deduplicates users by shared contact attributes:
//  1. Add a node per user id and, for each non-empty normalized email, phone
//     or address, an edge to a node qualified by the attribute kind.
//  2. Extract connected components.
//  3. Order components by their smallest user id and number them from 1.
//
// Two user ids share a number iff a chain of shared non-empty attributes
// connects them. Rows with an empty user id are skipped.
func ResolveIdentities(rows []schema.Record) *IdentityMapping {
	ig := newIdentityGraph()

	for _, row := range rows {
		userID := schema.NormalizeKey(row[schema.ColUserID])
		if userID == "" {
			continue
		}
		uid := ig.node(userNodePrefix + userID)

		for _, attr := range schema.ContactAttributes {
			value := schema.NormalizeAttribute(attr, row[string(attr)])
			if value == "" {
				continue
			}
			ig.link(uid, ig.node(string(attr)+":"+value))
		}
	}

	var components [][]string
	for _, comp := range topo.ConnectedComponents(ig.g) {
		var members []string
		for _, n := range comp {
			key := ig.keys[n.ID()]
			if strings.HasPrefix(key, userNodePrefix) {
				members = append(members, strings.TrimPrefix(key, userNodePrefix))
			}
		}
		if len(members) == 0 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return schema.LessID(members[i], members[j]) })
		components = append(components, members)
	}

	sort.Slice(components, func(i, j int) bool { return schema.LessID(components[i][0], components[j][0]) })

	mapping := &IdentityMapping{
		ByUser:     make(map[string]int),
		Components: components,
		Count:      len(components),
	}
	for i, members := range components {
		for _, userID := range members {
			mapping.ByUser[userID] = i + 1
		}
	}

	return mapping
}

// ResolveUserTable resolves identities over the user dimension directly.
func ResolveUserTable(users *schema.Table) *IdentityMapping {
	keyColumn := schema.ColID
	if !users.HasColumn(keyColumn) {
		keyColumn = schema.ColUserID
	}

	rows := make([]schema.Record, 0, len(users.Rows))
	for _, u := range users.Rows {
		row := schema.Record{schema.ColUserID: u[keyColumn]}
		for _, attr := range schema.ContactAttributes {
			row[string(attr)] = u[string(attr)]
		}
		rows = append(rows, row)
	}
	return ResolveIdentities(rows)
}
