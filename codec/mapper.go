package codec

import (
	"fmt"
	"reflect"
	"sync"
)

// Mapper converts values to and from JSON and XML with fixed settings.
// A Mapper is safe for concurrent use.
type Mapper struct {
	cfg Config
}

// NewMapper returns a Mapper with cfg.
func NewMapper(cfg Config) *Mapper {
	return &Mapper{cfg: cfg}
}

var defaultMapper = sync.OnceValue(func() *Mapper {
	return NewMapper(DefaultConfig())
})

// Default returns the Mapper used by the package level helpers.
func Default() *Mapper {
	return defaultMapper()
}

// Config returns the settings of m.
func (m *Mapper) Config() Config {
	return m.cfg
}

// Marshal encodes v as f.
func (m *Mapper) Marshal(f Format, v any) (string, error) {
	var (
		data []byte
		err  error
	)

	switch f {
	case FormatXML:
		data, err = m.encodeXML(v)
	default:
		data, err = m.encodeJSON(v, m.cfg.Indent)
	}

	if err != nil {
		return "", newEncodeError(f, err)
	}

	return string(data), nil
}

// Unmarshal decodes s as f into target, a non-nil pointer.
func (m *Mapper) Unmarshal(f Format, s string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newDecodeError(f, s, fmt.Errorf("%w, got %T", ErrInvalidTarget, target))
	}

	var err error
	switch f {
	case FormatXML:
		err = m.decodeXML([]byte(s), rv.Type().Elem(), target)
	default:
		err = m.decodeJSON([]byte(s), rv.Type().Elem(), target)
	}

	if err != nil {
		return newDecodeError(f, s, err)
	}

	return nil
}

// Decode decodes s as f into a new value of type t.
func (m *Mapper) Decode(f Format, s string, t reflect.Type) (any, error) {
	if t == nil {
		return nil, newDecodeError(f, s, fmt.Errorf("%w: nil type", ErrInvalidTarget))
	}

	ptr := reflect.New(t)
	if err := m.Unmarshal(f, s, ptr.Interface()); err != nil {
		return nil, err
	}

	return ptr.Elem().Interface(), nil
}

// Normalize re-encodes JSON text with the settings of m.
func (m *Mapper) Normalize(s string) (string, error) {
	data, err := m.readJSON([]byte(s))
	if err != nil {
		return "", newDecodeError(FormatJSON, s, err)
	}

	out, err := m.format(data, m.cfg.Indent)
	if err != nil {
		return "", newEncodeError(FormatJSON, err)
	}

	return string(out), nil
}

// JSONToXML converts JSON text to XML. The root element is named by the
// xml_root setting, "root" when unset.
func (m *Mapper) JSONToXML(s string) (string, error) {
	data, err := m.readJSON([]byte(s))
	if err != nil {
		return "", newDecodeError(FormatJSON, s, err)
	}

	root := m.cfg.XMLRoot
	if root == "" {
		root = rootElement
	}

	out, err := m.format(data, "")
	if err == nil {
		out, err = m.xmlFromJSON(root, out)
	}
	if err != nil {
		return "", newEncodeError(FormatXML, err)
	}

	return string(out), nil
}

// Unmarshal decodes s as f into a T using m.
func Unmarshal[T any](m *Mapper, f Format, s string) (T, error) {
	var out T
	err := m.Unmarshal(f, s, &out)
	return out, err
}

// ToJSON encodes v as JSON.
func ToJSON(v any) (string, error) {
	return Default().Marshal(FormatJSON, v)
}

// ToXML encodes v as XML.
func ToXML(v any) (string, error) {
	return Default().Marshal(FormatXML, v)
}

// FromJSON decodes JSON into a T. Generic payloads decode with their full
// type, e.g. FromJSON[Result[Page[User]]](s).
func FromJSON[T any](s string) (T, error) {
	return Unmarshal[T](Default(), FormatJSON, s)
}

// FromXML decodes XML into a T.
func FromXML[T any](s string) (T, error) {
	return Unmarshal[T](Default(), FormatXML, s)
}

// ListFromJSON decodes a JSON array into a slice of T.
func ListFromJSON[T any](s string) ([]T, error) {
	return FromJSON[[]T](s)
}

// ListFromXML decodes an XML list into a slice of T.
func ListFromXML[T any](s string) ([]T, error) {
	return FromXML[[]T](s)
}

// MapFromJSON decodes a JSON object into a map.
func MapFromJSON[K comparable, V any](s string) (map[K]V, error) {
	return FromJSON[map[K]V](s)
}

// MapFromXML decodes an XML element into a map keyed by child names.
func MapFromXML[K comparable, V any](s string) (map[K]V, error) {
	return FromXML[map[K]V](s)
}

// DecodeJSON decodes JSON into a new value of type t.
func DecodeJSON(s string, t reflect.Type) (any, error) {
	return Default().Decode(FormatJSON, s, t)
}

// DecodeXML decodes XML into a new value of type t.
func DecodeXML(s string, t reflect.Type) (any, error) {
	return Default().Decode(FormatXML, s, t)
}
