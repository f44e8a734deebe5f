package source

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML accepts either a top-level sequence of strings or a map with a
// "watchlist" sequence:
//
//	- bitcoin
//	- ethereum
//
//	watchlist: [bitcoin, ethereum]
//
// Elements must be YAML strings; numbers and booleans are rejected rather
// than coerced.
func ParseYAML(data []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ImportError{Reason: reasonParse, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ImportError{Reason: reasonNotArray}
	}
	root := doc.Content[0]
	if root.Kind == yaml.MappingNode {
		root = lookup(root, "watchlist")
		if root == nil {
			return nil, &ImportError{Reason: reasonNotArray, Err: fmt.Errorf("missing 'watchlist'")}
		}
	}
	if root.Kind != yaml.SequenceNode {
		return nil, &ImportError{Reason: reasonNotArray}
	}
	ids := make([]string, 0, len(root.Content))
	for _, n := range root.Content {
		if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
			return nil, &ImportError{Reason: reasonNotString}
		}
		ids = append(ids, n.Value)
	}
	return ids, nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
