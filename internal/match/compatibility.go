package match

import "reflect"

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means the types cannot be converted.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means conversion needs more than a Go conversion.
	TypeNeedsTransform
	// TypeConvertible means a Go conversion between values of the same kind.
	TypeConvertible
	// TypeAssignable means the source can be assigned to the target as is.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// Weight maps the level onto [0, 1] for candidate scoring.
func (c TypeCompatibility) Weight() float64 {
	switch c {
	case TypeIdentical:
		return 1.0
	case TypeAssignable:
		return 0.9
	case TypeConvertible:
		return 0.7
	case TypeNeedsTransform:
		return 0.4
	default:
		return 0
	}
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string
	SourceType    reflect.Type
	TargetType    reflect.Type
}

func result(c TypeCompatibility, reason string, source, target reflect.Type) TypeCompatibilityResult {
	return TypeCompatibilityResult{
		Compatibility: c,
		Reason:        reason,
		SourceType:    source,
		TargetType:    target,
	}
}

// ScoreTypeCompatibility determines the compatibility between source and
// target. Conversions are only reported between types of the same kind, so
// int -> string (a rune conversion) is not convertible.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	switch {
	case source == nil || target == nil:
		return result(TypeIncompatible, "type information unavailable", source, target)
	case source == target:
		return result(TypeIdentical, "types are identical", source, target)
	case source.AssignableTo(target):
		return result(TypeAssignable, "source is assignable to target", source, target)
	case source.Kind() == target.Kind() && source.ConvertibleTo(target):
		return result(TypeConvertible, "source is convertible to target", source, target)
	case needsTransform(source, target):
		return result(TypeNeedsTransform, "types require a transform", source, target)
	default:
		return result(TypeIncompatible, "types are not compatible", source, target)
	}
}

func convertibleAtLeast(source, target reflect.Type) bool {
	return ScoreTypeCompatibility(source, target).Compatibility >= TypeConvertible
}

func needsTransform(source, target reflect.Type) bool {
	sourcePtr := source.Kind() == reflect.Pointer
	targetPtr := target.Kind() == reflect.Pointer

	switch {
	case sourcePtr && targetPtr:
		return convertibleAtLeast(source.Elem(), target.Elem())
	case sourcePtr:
		return convertibleAtLeast(source.Elem(), target)
	case targetPtr:
		return convertibleAtLeast(source, target.Elem())
	}

	if source.Kind() == reflect.Slice && target.Kind() == reflect.Slice {
		return ScoreTypeCompatibility(source.Elem(), target.Elem()).Compatibility >= TypeNeedsTransform
	}

	return source.Kind() == reflect.Struct && target.Kind() == reflect.Struct
}

// ScorePointerCompatibility refines ScoreTypeCompatibility for pointer
// lifting, explaining whether a dereference, an address or a pointer cast is
// required.
func ScorePointerCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	res := ScoreTypeCompatibility(source, target)
	if res.Compatibility != TypeNeedsTransform {
		return res
	}

	sourcePtr := source.Kind() == reflect.Pointer
	targetPtr := target.Kind() == reflect.Pointer

	switch {
	case sourcePtr && targetPtr && convertibleAtLeast(source.Elem(), target.Elem()):
		res.Reason = "requires pointer cast"
	case sourcePtr && !targetPtr && convertibleAtLeast(source.Elem(), target):
		res.Reason = "requires pointer dereference"
	case !sourcePtr && targetPtr && convertibleAtLeast(source, target.Elem()):
		res.Reason = "requires taking address"
	}

	return res
}

// IsNumericType returns true if t has a numeric kind.
func IsNumericType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

// IsStringType returns true if t has string kind.
func IsStringType(t reflect.Type) bool {
	return t.Kind() == reflect.String
}
