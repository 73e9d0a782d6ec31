// Package codec converts values to and from JSON and XML text.
//
// A Mapper carries the serialization settings; the package level helpers
// use a Mapper built from DefaultConfig:
//
//   - object members holding null are not written
//   - object members are written in lexical key order
//   - unknown members are ignored when decoding
//   - an empty JSON array decodes as null into non-list targets
//   - raw control characters inside JSON strings are accepted
//
// JSON is encoded and decoded with github.com/goccy/go-json and rewritten
// with github.com/tidwall/gjson. XML is bridged through the same JSON form:
// struct members are named by their json tags, lists are wrapped in an
// element named after the member and root lists hold <item> elements.
//
//	<User><name>jack</name><tags><tags>a</tags><tags>b</tags></tags></User>
//
// Decoding XML reshapes the element tree against the target type, so a
// single element fills a one-element list and element text becomes a
// number or a boolean where the target field asks for one.
package codec
