// Package convert copies exported fields between differently typed structs.
//
// Fields are matched by name (or by the `copy:"Source"` tag on the target)
// and copied when their types are assignable, convertible within the same
// kind, or one pointer level apart. Other fields are left untouched unless a
// conversion category or a caster is configured. The copy is shallow:
// slices, maps and pointers are shared with the source.
//
// Package level helpers without options share one cached Copier. Passing
// options builds a new Copier per call; keep a Copier for repeated use.
package convert

import (
	"fmt"
	"reflect"

	"common-tools/codec"
	"common-tools/utils"
)

// Copy copies source into target and returns target. It returns nil when
// either side is nil.
func Copy[F, T any](source *F, target *T, opts ...Option) (*T, error) {
	return CopyFunc(source, target, nil, opts...)
}

// CopyFunc is Copy followed by fn(source, target) when fn is not nil.
func CopyFunc[F, T any](source *F, target *T, fn func(*F, *T), opts ...Option) (*T, error) {
	if source == nil || target == nil {
		return nil, nil
	}

	c, err := copierFor(opts)
	if err != nil {
		return nil, err
	}

	if err := copyInto(c, source, target, fn); err != nil {
		return nil, err
	}

	return target, nil
}

// To copies source into the value returned by supplier. It returns nil for
// a nil source and ErrNilSupplier for a nil supplier.
func To[F, T any](source *F, supplier func() *T, opts ...Option) (*T, error) {
	return ToFunc(source, supplier, nil, opts...)
}

// ToFunc is To followed by fn(source, target) when fn is not nil.
func ToFunc[F, T any](source *F, supplier func() *T, fn func(*F, *T), opts ...Option) (*T, error) {
	if source == nil {
		return nil, nil
	}

	if supplier == nil {
		return nil, ErrNilSupplier
	}

	target := supplier()
	if target == nil {
		return nil, fmt.Errorf("%w: supplier returned nil", ErrNilSupplier)
	}

	return CopyFunc(source, target, fn, opts...)
}

// List copies every non-nil element of from into a new T, calling fn (when
// not nil) after each copy. Empty input yields an empty slice. A failing
// element is logged with its JSON form and stops the conversion.
func List[F, T any](from []*F, fn func(*F, *T), opts ...Option) ([]*T, error) {
	out := make([]*T, 0, len(from))
	if len(from) == 0 {
		return out, nil
	}

	c, err := copierFor(opts)
	if err != nil {
		return nil, err
	}

	for i, f := range from {
		if f == nil {
			continue
		}

		t := new(T)
		if err := copyInto(c, f, t, fn); err != nil {
			c.logger.Errorw("convert error", "f", render(f), "index", i, "err", err)
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		out = append(out, t)
	}

	return out, nil
}

// Map applies fn to every non-nil element of from. Empty input yields an
// empty slice.
func Map[F, T any](from []F, fn func(F) T) []T {
	out := make([]T, 0, len(from))
	for _, f := range from {
		if utils.IsNil(f) {
			continue
		}
		out = append(out, fn(f))
	}
	return out
}

func copyInto[F, T any](c *Copier, source *F, target *T, fn func(*F, *T)) error {
	if err := c.copyValue(reflect.ValueOf(source).Elem(), reflect.ValueOf(target)); err != nil {
		return err
	}

	if fn != nil {
		fn(source, target)
	}

	return nil
}

func render(v any) string {
	text, err := codec.ToJSON(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return text
}
