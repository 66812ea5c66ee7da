package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"salesdash/pkg/schema"
)

// ParseMarkup reads YAML (or JSON) into a table. The document must be a
// sequence of mappings, or a mapping with a single key holding one. Nested
// mappings are flattened with "."-joined keys; sequences of scalars are
// joined with ", ". Scalar text is kept verbatim so "10.00" stays "10.00".
func ParseMarkup(data []byte) (*ParseResult, error) {
	decoded, encoding, err := DetectAndDecode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(decoded, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty file: no records found")
	}

	items, err := recordNodes(resolveAlias(doc.Content[0]))
	if err != nil {
		return nil, err
	}

	var warnings []ParseWarning
	table := &schema.Table{}
	rawColumns := make([]string, 0)
	seenColumns := make(map[string]bool)
	rawRows := make([]map[string]string, 0, len(items))

	for i, item := range items {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			warnings = append(warnings, ParseWarning{
				Row:     i + 1,
				Message: fmt.Sprintf("record is not a mapping (kind %d); skipped", item.Kind),
			})
			continue
		}
		flat := make(map[string]string)
		var order []string
		flattenMapping(item, "", flat, &order)
		for _, key := range order {
			if !seenColumns[key] {
				seenColumns[key] = true
				rawColumns = append(rawColumns, key)
			}
		}
		rawRows = append(rawRows, flat)
	}

	headers, dupWarnings := dedupeHeaders(schema.CanonicalizeHeaders(rawColumns))
	warnings = append(warnings, dupWarnings...)
	table.Columns = compactHeaders(headers)
	for _, raw := range rawRows {
		record := make(schema.Record, len(table.Columns))
		for i, h := range headers {
			if h == "" {
				continue
			}
			record[h] = raw[rawColumns[i]]
		}
		table.Rows = append(table.Rows, record)
	}

	return &ParseResult{Table: table, Encoding: encoding, Warnings: warnings}, nil
}

// recordNodes returns the nodes that each describe one record.
func recordNodes(root *yaml.Node) ([]*yaml.Node, error) {
	switch root.Kind {
	case yaml.SequenceNode:
		return root.Content, nil
	case yaml.MappingNode:
		// {orders: [...]} wraps the record list under one key.
		if len(root.Content) == 2 {
			if inner := resolveAlias(root.Content[1]); inner.Kind == yaml.SequenceNode {
				return inner.Content, nil
			}
		}
		return []*yaml.Node{root}, nil
	default:
		return nil, fmt.Errorf("unsupported markup root: expected a list of records")
	}
}

// flattenMapping walks a mapping node, writing dotted keys into out and
// recording first-seen key order.
func flattenMapping(node *yaml.Node, prefix string, out map[string]string, order *[]string) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		value := resolveAlias(node.Content[i+1])

		if value.Kind == yaml.MappingNode {
			flattenMapping(value, key, out, order)
			continue
		}

		if _, exists := out[key]; !exists {
			*order = append(*order, key)
		}
		out[key] = scalarText(value)
	}
}

// scalarText renders a leaf node as a cell value.
func scalarText(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return ""
		}
		return node.Value
	case yaml.SequenceNode:
		parts := make([]string, 0, len(node.Content))
		for _, c := range node.Content {
			if s := scalarText(resolveAlias(c)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
