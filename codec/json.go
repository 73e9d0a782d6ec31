package codec

import (
	"bytes"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"common-tools/internal/analyze"
)

func (m *Mapper) encodeJSON(v any, indent string) ([]byte, error) {
	data, err := json.MarshalWithOption(v, json.DisableHTMLEscape())
	if err != nil {
		return nil, err
	}

	return m.format(data, indent)
}

// readJSON checks JSON input, escaping raw control characters when allowed.
func (m *Mapper) readJSON(data []byte) ([]byte, error) {
	if m.cfg.AllowControlChars {
		data = escapeControlChars(data)
	}

	if !json.Valid(data) {
		return nil, ErrSyntax
	}

	return data, nil
}

// format applies the null, ordering and indent settings to encoded JSON.
func (m *Mapper) format(data []byte, indent string) ([]byte, error) {
	if m.cfg.SkipNulls || m.cfg.SortProperties {
		var buf bytes.Buffer
		buf.Grow(len(data))
		m.rewrite(&buf, gjson.ParseBytes(data), nil, false)
		data = buf.Bytes()
	}

	if indent == "" {
		return data, nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", indent); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func (m *Mapper) decodeJSON(data []byte, t reflect.Type, target any) error {
	data, err := m.readJSON(data)
	if err != nil {
		return err
	}

	if m.cfg.EmptyArrayAsNull && bytes.IndexByte(data, '[') >= 0 {
		var buf bytes.Buffer
		buf.Grow(len(data))
		m.rewrite(&buf, gjson.ParseBytes(data), t, true)
		data = buf.Bytes()
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if !m.cfg.IgnoreUnknown {
		dec.DisallowUnknownFields()
	}

	return dec.Decode(target)
}

type member struct {
	key   gjson.Result
	value gjson.Result
}

// rewrite writes v to buf applying the null and ordering settings. When
// decoding, t guides where empty arrays become null.
func (m *Mapper) rewrite(buf *bytes.Buffer, v gjson.Result, t reflect.Type, decoding bool) {
	t = indirect(t)

	switch {
	case v.IsObject():
		var members []member
		v.ForEach(func(key, value gjson.Result) bool {
			if !decoding && m.cfg.SkipNulls && value.Type == gjson.Null {
				return true
			}
			members = append(members, member{key: key, value: value})
			return true
		})

		if !decoding && m.cfg.SortProperties {
			slices.SortStableFunc(members, func(a, b member) int {
				return strings.Compare(a.key.Str, b.key.Str)
			})
		}

		buf.WriteByte('{')
		for i, mem := range members {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(mem.key.Raw)
			buf.WriteByte(':')
			m.rewrite(buf, mem.value, memberType(t, mem.key.Str), decoding)
		}
		buf.WriteByte('}')

	case v.IsArray():
		if decoding && t != nil && !isList(t) && t.Kind() != reflect.Interface && len(v.Array()) == 0 {
			buf.WriteString("null")
			return
		}

		var elem reflect.Type
		if t != nil && isList(t) {
			elem = t.Elem()
		}

		buf.WriteByte('[')
		i := 0
		v.ForEach(func(_, value gjson.Result) bool {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			m.rewrite(buf, value, elem, decoding)
			return true
		})
		buf.WriteByte(']')

	default:
		buf.WriteString(v.Raw)
	}
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func isList(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

// memberType returns the type of the member named name in t, nil if unknown.
func memberType(t reflect.Type, name string) reflect.Type {
	t = indirect(t)
	if t == nil {
		return nil
	}

	switch t.Kind() {
	case reflect.Map:
		return t.Elem()
	case reflect.Struct:
		info, err := analyze.Struct(t)
		if err != nil {
			return nil
		}

		var folded reflect.Type
		for _, f := range info.Fields {
			if f.Tag.Get("json") == "-" {
				continue
			}
			jsonName := f.JSONName()
			if jsonName == name {
				return f.Type
			}
			if folded == nil && strings.EqualFold(jsonName, name) {
				folded = f.Type
			}
		}
		return folded
	default:
		return nil
	}
}

// escapeControlChars escapes raw control characters found inside JSON
// strings.
func escapeControlChars(data []byte) []byte {
	var (
		out      []byte
		inString bool
		escaped  bool
	)

	for i, c := range data {
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString && c < 0x20:
			if out == nil {
				out = make([]byte, 0, len(data)+16)
				out = append(out, data[:i]...)
			}
			out = fmt.Appendf(out, `\u%04x`, c)
			continue
		}

		if out != nil {
			out = append(out, c)
		}
	}

	if out == nil {
		return data
	}

	return out
}
