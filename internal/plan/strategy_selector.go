package plan

import (
	"reflect"

	"common-tools/internal/caster"
	"common-tools/internal/match"
	"common-tools/primitive"
)

// Strategy explanation constants.
const (
	explCaster       = "caster "
	explPrimitive    = "category "
	explPointerDeref = "pointer deref"
	explPointerWrap  = "pointer wrap"
	explPointerCast  = "pointer cast"
	explSliceMap     = "slice map"
)

type selected struct {
	strategy    ConversionStrategy
	category    primitive.CategoryEnum
	caster      string
	explanation string
	conv        primitive.Func
}

type selector struct {
	casters *caster.Registry
}

func newSelector(casters *caster.Registry) selector {
	return selector{casters: casters}
}

func (r *Resolver) selectStrategy(src, dst reflect.Type, categories primitive.CategoryEnum) (selected, bool) {
	return newSelector(r.config.Casters).sel(src, dst, categories)
}

// sel picks the first applicable strategy: caster, assignment, same-kind
// conversion, scalar category, then pointer and slice lifting of those.
func (s selector) sel(src, dst reflect.Type, categories primitive.CategoryEnum) (selected, bool) {
	if c, ok := s.casters.Lookup(src, dst); ok {
		return selected{
			strategy:    StrategyTransform,
			caster:      c.String(),
			explanation: explCaster + c.String(),
			conv: func(in, out reflect.Value) error {
				v, err := c.Call(in)
				if err != nil {
					return err
				}
				out.Set(v)
				return nil
			},
		}, true
	}

	compat := match.ScoreTypeCompatibility(src, dst)
	switch compat.Compatibility {
	case match.TypeIdentical, match.TypeAssignable:
		return selected{
			strategy:    StrategyDirectAssign,
			explanation: compat.Compatibility.String(),
			conv: func(in, out reflect.Value) error {
				out.Set(in)
				return nil
			},
		}, true

	case match.TypeConvertible:
		return selected{
			strategy:    StrategyConvert,
			explanation: compat.Compatibility.String(),
			conv: func(in, out reflect.Value) error {
				out.Set(in.Convert(dst))
				return nil
			},
		}, true
	}

	if fn, category, ok := primitive.Converter(src, dst, categories); ok {
		return selected{
			strategy:    StrategyPrimitive,
			category:    category,
			explanation: explPrimitive + category.String(),
			conv:        fn,
		}, true
	}

	srcPtr := src.Kind() == reflect.Pointer
	dstPtr := dst.Kind() == reflect.Pointer

	switch {
	case srcPtr && dstPtr:
		inner, ok := s.sel(src.Elem(), dst.Elem(), categories)
		if !ok {
			return selected{}, false
		}
		return lifted(StrategyPointerCast, explPointerCast, inner, func(in, out reflect.Value) error {
			if in.IsNil() {
				out.SetZero()
				return nil
			}
			elem := reflect.New(dst.Elem())
			if err := inner.conv(in.Elem(), elem.Elem()); err != nil {
				return err
			}
			out.Set(elem)
			return nil
		}), true

	case srcPtr:
		inner, ok := s.sel(src.Elem(), dst, categories)
		if !ok {
			return selected{}, false
		}
		return lifted(StrategyPointerDeref, explPointerDeref, inner, func(in, out reflect.Value) error {
			if in.IsNil() {
				out.SetZero()
				return nil
			}
			return inner.conv(in.Elem(), out)
		}), true

	case dstPtr:
		inner, ok := s.sel(src, dst.Elem(), categories)
		if !ok {
			return selected{}, false
		}
		return lifted(StrategyPointerWrap, explPointerWrap, inner, func(in, out reflect.Value) error {
			elem := reflect.New(dst.Elem())
			if err := inner.conv(in, elem.Elem()); err != nil {
				return err
			}
			out.Set(elem)
			return nil
		}), true
	}

	if src.Kind() == reflect.Slice && dst.Kind() == reflect.Slice {
		inner, ok := s.sel(src.Elem(), dst.Elem(), categories)
		if !ok {
			return selected{}, false
		}
		return lifted(StrategySliceMap, explSliceMap, inner, func(in, out reflect.Value) error {
			if in.IsNil() {
				out.SetZero()
				return nil
			}
			converted := reflect.MakeSlice(dst, in.Len(), in.Len())
			for i := range in.Len() {
				if err := inner.conv(in.Index(i), converted.Index(i)); err != nil {
					return &IndexError{Index: i, Err: err}
				}
			}
			out.Set(converted)
			return nil
		}), true
	}

	return selected{}, false
}

func lifted(strategy ConversionStrategy, explanation string, inner selected, conv primitive.Func) selected {
	return selected{
		strategy:    strategy,
		category:    inner.category,
		caster:      inner.caster,
		explanation: explanation + " of " + inner.explanation,
		conv:        conv,
	}
}
