package analyze

import "reflect"

// Read walks index from v. It reports false when a nil embedded pointer is
// on the path.
func Read(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}

	return v, true
}

// Write walks index from v, allocating nil embedded pointers on the way. It
// reports false when the field or an embedded pointer cannot be set.
func Write(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}

	return v, v.CanSet()
}

// CanAllocate reports whether Write can reach the field at index in a zero
// value of t. It fails when the path crosses an unexported embedded pointer,
// which reflect cannot allocate.
func CanAllocate(t reflect.Type, index []int) bool {
	for i, x := range index {
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		sf := t.Field(x)
		if i < len(index)-1 && sf.Type.Kind() == reflect.Pointer && !sf.IsExported() {
			return false
		}
		t = sf.Type
	}

	return true
}
