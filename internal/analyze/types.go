package analyze

import (
	"reflect"
	"strings"

	"common-tools/internal/common"
)

// TagKey is the struct tag read by the copier.
const TagKey = "copy"

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "common-tools/convert"
	Name    string // e.g., "Employee"
}

// IDOf returns the identifier of t. Unnamed types get their literal
// representation as the name and an empty package path.
func IDOf(t reflect.Type) TypeID {
	if t == nil {
		return TypeID{Name: "nil"}
	}

	if t.Name() == "" {
		return TypeID{Name: t.String()}
	}

	return TypeID{PkgPath: t.PkgPath(), Name: t.Name()}
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the package alias qualified name, e.g. "convert.Employee".
func (t TypeID) Short() string {
	return common.ShortTypeName(t.PkgPath, t.Name)
}

// Matches reports whether ref names this type, either fully qualified or by
// its short form.
func (t TypeID) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)
	return ref != "" && (ref == t.String() || ref == t.Short())
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindArray             // array of another type
	TypeKindMap               // map type
	TypeKindAlias             // named type over a basic type
	TypeKindExternal          // struct without exported fields (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// KindOf classifies t.
func KindOf(t reflect.Type) TypeKind {
	if t == nil {
		return TypeKindUnknown
	}

	switch t.Kind() {
	case reflect.Pointer:
		return TypeKindPointer
	case reflect.Slice:
		return TypeKindSlice
	case reflect.Array:
		return TypeKindArray
	case reflect.Map:
		return TypeKindMap
	case reflect.Struct:
		for i := range t.NumField() {
			if t.Field(i).IsExported() {
				return TypeKindStruct
			}
		}
		return TypeKindExternal
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		if t.PkgPath() != "" {
			return TypeKindAlias
		}
		return TypeKindBasic
	default:
		return TypeKindUnknown
	}
}

// FieldInfo describes an exported struct field, possibly promoted from an
// embedded struct.
type FieldInfo struct {
	Name  string            // Go field name
	Type  reflect.Type      // Field type
	Tag   reflect.StructTag // Raw struct tag
	Index []int             // Index path from the outer struct
	Depth int               // Embedding depth, 0 for direct fields
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f *FieldInfo) JSONName() string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}

	return name
}

// Skipped reports whether the field opts out of copying with `copy:"-"`.
func (f *FieldInfo) Skipped() bool {
	return f.Tag.Get(TagKey) == "-"
}

// SourceName returns the source field name pinned by the copy tag, if any.
func (f *FieldInfo) SourceName() (string, bool) {
	tag := strings.TrimSpace(f.Tag.Get(TagKey))
	if tag == "" || tag == "-" {
		return "", false
	}

	return tag, true
}

// Path renders the field as Type.Field.
func (f *FieldInfo) Path(owner TypeID) string {
	return owner.Name + "." + f.Name
}
