package analyze

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

var ErrNotStruct = errors.New("not a struct type")

// StructInfo holds the flattened exported fields of a struct type.
type StructInfo struct {
	ID     TypeID
	Type   reflect.Type
	Fields []FieldInfo

	byName map[string]int
}

// Field returns the field called name.
func (s *StructInfo) Field(name string) (*FieldInfo, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}

	return &s.Fields[i], true
}

// Names returns the field names in declaration order.
func (s *StructInfo) Names() []string {
	names := make([]string, len(s.Fields))
	for i := range s.Fields {
		names[i] = s.Fields[i].Name
	}

	return names
}

var structCache sync.Map // map[reflect.Type]*StructInfo

// Struct returns the model of t. Pointers to structs are dereferenced.
func Struct(t reflect.Type) (*StructInfo, error) {
	if t == nil {
		return nil, ErrNotStruct
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}

	if cached, ok := structCache.Load(t); ok {
		return cached.(*StructInfo), nil
	}

	info := &StructInfo{
		ID:     IDOf(t),
		Type:   t,
		Fields: collectFields(t),
	}

	info.byName = make(map[string]int, len(info.Fields))
	for i := range info.Fields {
		info.byName[info.Fields[i].Name] = i
	}

	actual, _ := structCache.LoadOrStore(t, info)

	return actual.(*StructInfo), nil
}

type embedded struct {
	typ   reflect.Type
	index []int
}

// collectFields walks embedded structs breadth first. A name found at a
// shallower depth hides deeper ones; a name found twice at the same depth is
// dropped along with everything deeper.
func collectFields(t reflect.Type) []FieldInfo {
	var (
		fields  []FieldInfo
		seen    = map[string]bool{}
		visited = map[reflect.Type]bool{}
		next    = []embedded{{typ: t}}
	)

	for depth := 0; len(next) > 0; depth++ {
		current := next
		next = nil

		var level []FieldInfo
		count := map[string]int{}

		for _, e := range current {
			if visited[e.typ] {
				continue
			}
			visited[e.typ] = true

			for i := range e.typ.NumField() {
				sf := e.typ.Field(i)
				index := append(slices.Clone(e.index), i)

				if sf.Tag.Get(TagKey) == "-" && sf.Anonymous {
					continue
				}

				if sf.Anonymous {
					ft := sf.Type
					if ft.Kind() == reflect.Pointer {
						ft = ft.Elem()
					}

					if ft.Kind() == reflect.Struct && KindOf(ft) == TypeKindStruct {
						next = append(next, embedded{typ: ft, index: index})
						continue
					}
				}

				if !sf.IsExported() {
					continue
				}

				level = append(level, FieldInfo{
					Name:  sf.Name,
					Type:  sf.Type,
					Tag:   sf.Tag,
					Index: index,
					Depth: depth,
				})
				count[sf.Name]++
			}
		}

		for _, f := range level {
			if seen[f.Name] {
				continue
			}
			if count[f.Name] > 1 {
				continue
			}
			fields = append(fields, f)
		}

		for name := range count {
			seen[name] = true
		}
	}

	return fields
}
