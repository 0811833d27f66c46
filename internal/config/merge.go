package config

import "gopkg.in/yaml.v3"

// MergeNodes merges the src mapping node into dst, keeping dst's key order
// and appending keys only src has. Mappings merge recursively; any other
// value in src replaces the one in dst. A nil or non-mapping dst is
// replaced by a copy of src.
func MergeNodes(dst, src *yaml.Node) *yaml.Node {
	src = resolveNode(src)
	if src == nil {
		return dst
	}
	dst = resolveNode(dst)
	if dst == nil || dst.Kind != yaml.MappingNode || src.Kind != yaml.MappingNode {
		return cloneNode(src)
	}

	for i := 0; i+1 < len(src.Content); i += 2 {
		key := src.Content[i]
		srcVal := src.Content[i+1]

		idx := mappingIndex(dst, key.Value)
		if idx < 0 {
			dst.Content = append(dst.Content, cloneNode(key), cloneNode(srcVal))
			continue
		}
		dst.Content[idx+1] = MergeNodes(dst.Content[idx+1], srcVal)
	}
	return dst
}

// mappingIndex returns the index of key in a mapping node's content, or -1.
func mappingIndex(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// mappingValue returns the value node for key, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	m = resolveNode(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	if idx := mappingIndex(m, key); idx >= 0 {
		return resolveNode(m.Content[idx+1])
	}
	return nil
}

// cloneNode creates a deep copy of a node with aliases expanded.
func cloneNode(n *yaml.Node) *yaml.Node {
	n = resolveNode(n)
	if n == nil {
		return nil
	}
	out := *n
	out.Content = make([]*yaml.Node, len(n.Content))
	for i, c := range n.Content {
		out.Content[i] = cloneNode(c)
	}
	return &out
}
