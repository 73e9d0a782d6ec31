package codec

import (
	"bytes"
	"slices"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// ParseNode parses s into a read-only JSON tree.
func ParseNode(s string) (gjson.Result, error) {
	data, err := Default().readJSON([]byte(s))
	if err != nil {
		return gjson.Result{}, newDecodeError(FormatJSON, s, err)
	}

	return gjson.ParseBytes(data), nil
}

// ObjectNode is a mutable JSON object that keeps its members in insertion
// order. MarshalJSON and String keep that order; a Mapper with
// SortProperties set re-sorts the members like any other object.
type ObjectNode struct {
	keys   []string
	values map[string]any
}

// NewObjectNode returns an empty ObjectNode.
func NewObjectNode() *ObjectNode {
	return &ObjectNode{values: make(map[string]any)}
}

// Put sets key to value. A replaced member keeps its position.
func (n *ObjectNode) Put(key string, value any) *ObjectNode {
	if _, ok := n.values[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.values[key] = value
	return n
}

// PutObject sets key to a new ObjectNode and returns it.
func (n *ObjectNode) PutObject(key string) *ObjectNode {
	child := NewObjectNode()
	n.Put(key, child)
	return child
}

// Get returns the value of key.
func (n *ObjectNode) Get(key string) (any, bool) {
	v, ok := n.values[key]
	return v, ok
}

// Remove deletes key.
func (n *ObjectNode) Remove(key string) {
	if _, ok := n.values[key]; !ok {
		return
	}
	delete(n.values, key)
	n.keys = slices.DeleteFunc(n.keys, func(k string) bool { return k == key })
}

// Keys returns the member names in insertion order.
func (n *ObjectNode) Keys() []string {
	return slices.Clone(n.keys)
}

// Len returns the number of members.
func (n *ObjectNode) Len() int {
	return len(n.keys)
}

// MarshalJSON writes the members in insertion order.
func (n *ObjectNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range n.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.MarshalWithOption(key, json.DisableHTMLEscape())
		if err != nil {
			return nil, err
		}
		v, err := json.MarshalWithOption(n.values[key], json.DisableHTMLEscape())
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the JSON form of n, or "{}" when a member cannot be
// encoded.
func (n *ObjectNode) String() string {
	data, err := n.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(data)
}
