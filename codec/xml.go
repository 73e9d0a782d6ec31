package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"common-tools/internal/analyze"
)

const (
	itemElement = "item"
	nullElement = "null"
	rootElement = "root"
)

// rootName names the root element of v.
func (m *Mapper) rootName(v any) string {
	if m.cfg.XMLRoot != "" {
		return m.cfg.XMLRoot
	}

	t := indirect(reflect.TypeOf(v))
	if t == nil || t.Name() == "" {
		return rootElement
	}

	// Page[User] -> Page
	name, _, _ := strings.Cut(t.Name(), "[")
	return xmlName(name)
}

func (m *Mapper) encodeXML(v any) ([]byte, error) {
	data, err := m.encodeJSON(v, "")
	if err != nil {
		return nil, err
	}

	return m.xmlFromJSON(m.rootName(v), data)
}

// xmlFromJSON writes encoded JSON as the XML element root.
func (m *Mapper) xmlFromJSON(root string, data []byte) ([]byte, error) {
	value := gjson.ParseBytes(data)
	if value.Type == gjson.Null {
		return []byte("<" + nullElement + "/>"), nil
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if m.cfg.Indent != "" {
		enc.Indent("", m.cfg.Indent)
	}

	if err := writeElement(enc, root, itemElement, value); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeElement writes v as the element name. Array items are written as
// elements named item.
func writeElement(enc *xml.Encoder, name, item string, v gjson.Result) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	var err error
	switch {
	case v.IsObject():
		v.ForEach(func(key, value gjson.Result) bool {
			child := xmlName(key.Str)
			err = writeElement(enc, child, child, value)
			return err == nil
		})

	case v.IsArray():
		v.ForEach(func(_, value gjson.Result) bool {
			err = writeElement(enc, item, itemElement, value)
			return err == nil
		})

	case v.Type == gjson.Null:

	case v.Type == gjson.String:
		err = enc.EncodeToken(xml.CharData(v.Str))

	default:
		err = enc.EncodeToken(xml.CharData(v.Raw))
	}

	if err != nil {
		return err
	}

	return enc.EncodeToken(start.End())
}

// xmlName turns a JSON member name into an XML element name.
func xmlName(key string) string {
	if key == "" {
		return "_"
	}

	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
			b.WriteRune(r)
		case i == 0 && unicode.IsDigit(r):
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}

type xmlNode struct {
	name     string
	attrs    []xml.Attr
	children []*xmlNode
	text     strings.Builder
}

func (n *xmlNode) leaf() bool {
	return len(n.children) == 0 && len(n.attrs) == 0
}

func parseXML(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		root  *xmlNode
		stack []*xmlNode
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: tok.Name.Local}
			for _, attr := range tok.Attr {
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
					continue
				}
				node.attrs = append(node.attrs, attr)
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: more than one root element", ErrSyntax)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(tok)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrSyntax)
	}

	return root, nil
}

func (m *Mapper) decodeXML(data []byte, t reflect.Type, target any) error {
	root, err := parseXML(data)
	if err != nil {
		return err
	}

	var value any
	if !(root.name == nullElement && root.leaf() && strings.TrimSpace(root.text.String()) == "") {
		value = shapeNode(root, t)
	}

	bridged, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return m.decodeJSON(bridged, t, target)
}

// shapeNode turns n into a JSON compatible value following t. A nil t
// keeps the element structure: repeated children become lists and leaves
// stay text.
func shapeNode(n *xmlNode, t reflect.Type) any {
	t = indirect(t)

	if t != nil && isList(t) && !isBytes(t) {
		return shapeList(n, t)
	}

	if n.leaf() {
		return shapeText(n.text.String(), t)
	}

	if t != nil && analyze.KindOf(t) == analyze.TypeKindExternal {
		return n.text.String()
	}

	out := make(map[string]any, len(n.attrs)+len(n.children))
	for _, attr := range n.attrs {
		out[attr.Name.Local] = shapeText(attr.Value, memberType(t, attr.Name.Local))
	}

	var order []string
	groups := make(map[string][]*xmlNode)
	for _, child := range n.children {
		if _, seen := groups[child.name]; !seen {
			order = append(order, child.name)
		}
		groups[child.name] = append(groups[child.name], child)
	}

	for _, name := range order {
		group := groups[name]
		ft := memberType(t, name)

		switch {
		case len(group) == 1:
			out[name] = shapeNode(group[0], ft)
		case ft != nil && isList(indirect(ft)):
			// unwrapped list: <tags>a</tags><tags>b</tags>
			elem := indirect(ft).Elem()
			items := make([]any, len(group))
			for i, child := range group {
				items[i] = shapeNode(child, elem)
			}
			out[name] = items
		case ft == nil && (t == nil || t.Kind() == reflect.Interface):
			items := make([]any, len(group))
			for i, child := range group {
				items[i] = shapeNode(child, nil)
			}
			out[name] = items
		default:
			out[name] = shapeNode(group[len(group)-1], ft)
		}
	}

	return out
}

func shapeList(n *xmlNode, t reflect.Type) any {
	elem := t.Elem()

	if n.leaf() {
		text := n.text.String()
		if strings.TrimSpace(text) == "" {
			return []any{}
		}
		return []any{shapeText(text, elem)}
	}

	if !wrapsItems(n, elem) {
		return []any{shapeNode(n, elem)}
	}

	items := make([]any, len(n.children))
	for i, child := range n.children {
		items[i] = shapeNode(child, elem)
	}
	return items
}

// wrapsItems reports whether n is a list wrapper: its children share one
// name that is not a member of the element type.
func wrapsItems(n *xmlNode, elem reflect.Type) bool {
	if len(n.attrs) > 0 {
		return false
	}

	name := n.children[0].name
	for _, child := range n.children[1:] {
		if child.name != name {
			return false
		}
	}

	return len(n.children) > 1 || memberType(elem, name) == nil
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

// shapeText converts element text to the JSON scalar t asks for.
func shapeText(text string, t reflect.Type) any {
	t = indirect(t)
	if t == nil {
		return text
	}

	trimmed := strings.TrimSpace(text)

	switch t.Kind() {
	case reflect.Bool:
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return b
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if trimmed == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return json.Number(trimmed)
		}
	case reflect.Struct, reflect.Map:
		if trimmed == "" && analyze.KindOf(t) != analyze.TypeKindExternal {
			return map[string]any{}
		}
	}

	return text
}
