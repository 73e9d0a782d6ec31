package primitive

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"common-tools/utils"
)

// Func writes the converted value of src into dst. dst must be settable.
type Func func(src, dst reflect.Value) error

var (
	ErrOutOfRange = errors.New("value out of range")
	ErrSyntax     = errors.New("invalid textual value")
	ErrNoText     = errors.New("enum has no textual form")
)

var stringerType = reflect.TypeFor[fmt.Stringer]()

// Converter returns the conversion from src to dst when one of the allowed
// categories covers the pair. The returned category is the one that matched.
func Converter(src, dst reflect.Type, allowed CategoryEnum) (Func, CategoryEnum, bool) {
	pair := ConversionPair{FromReflectType(src), FromReflectType(dst)}
	if !pair.From.IsValid() || !pair.To.IsValid() {
		return nil, CategoryNone, false
	}

	category, ok := CategoryOf(pair, allowed)
	if !ok {
		return nil, CategoryNone, false
	}

	switch category {
	case CategorySafeNumber, CategoryUnsafeNumber:
		return convertNumber, category, true
	case CategoryTextNumber:
		if pair.To == KindString {
			return numberToText(pair.From), category, true
		}
		return textToNumber(pair.To), category, true
	case CategoryNumericBool:
		if pair.To == KindBool {
			return numberToBool(pair.From), category, true
		}
		return boolToNumber(pair.To), category, true
	case CategoryTextualBool:
		if pair.To == KindBool {
			return textToBool, category, true
		}
		return boolToText, category, true
	case CategoryDatetime:
		if pair.To == KindTime {
			return textToTime, category, true
		}
		return timeToText, category, true
	case CategoryTimestamp:
		if pair.To == KindTime {
			return unixToTime(pair.From), category, true
		}
		return timeToUnix(pair.To), category, true
	case CategoryDuration:
		if pair.To == KindDuration {
			return textToDuration, category, true
		}
		return durationToText, category, true
	case CategoryNanoseconds:
		if pair.To == KindDuration {
			return nanosToDuration(pair.From), category, true
		}
		return durationToNanos(pair.To), category, true
	case CategorySeconds:
		if pair.To == KindDuration {
			return secondsToDuration, category, true
		}
		return durationToSeconds, category, true
	case CategoryEnumString:
		return enumText(pair.To), category, true
	}

	return nil, CategoryNone, false
}

func convertNumber(src, dst reflect.Value) error {
	dst.Set(src.Convert(dst.Type()))
	return nil
}

func numberToText(from KindEnum) Func {
	return func(src, dst reflect.Value) error {
		switch {
		case from.IsSigned():
			dst.SetString(strconv.FormatInt(src.Int(), 10))
		case from.IsUnsigned():
			dst.SetString(strconv.FormatUint(src.Uint(), 10))
		default:
			dst.SetString(strconv.FormatFloat(src.Float(), 'f', -1, from.Bits()))
		}
		return nil
	}
}

func textToNumber(to KindEnum) Func {
	return func(src, dst reflect.Value) error {
		text := strings.TrimSpace(src.String())
		switch {
		case to.IsSigned():
			n, err := strconv.ParseInt(text, 10, to.Bits())
			if err != nil {
				return fmt.Errorf("%w: %q as %s: %w", ErrSyntax, text, to, err)
			}
			dst.SetInt(n)
		case to.IsUnsigned():
			n, err := strconv.ParseUint(text, 10, to.Bits())
			if err != nil {
				return fmt.Errorf("%w: %q as %s: %w", ErrSyntax, text, to, err)
			}
			dst.SetUint(n)
		default:
			n, err := strconv.ParseFloat(text, to.Bits())
			if err != nil {
				return fmt.Errorf("%w: %q as %s: %w", ErrSyntax, text, to, err)
			}
			dst.SetFloat(n)
		}
		return nil
	}
}

func integerOf(kind KindEnum, v reflect.Value) (int64, bool) {
	if kind.IsSigned() {
		return v.Int(), true
	}
	u := v.Uint()
	if u > 1<<63-1 {
		return 0, false
	}
	return int64(u), true
}

func numberToBool(from KindEnum) Func {
	return func(src, dst reflect.Value) error {
		n, ok := integerOf(from, src)
		if !ok || !utils.IsInRange(0, n, 1) {
			return fmt.Errorf("%w: %v is not a 0/1 boolean", ErrOutOfRange, src.Interface())
		}
		dst.SetBool(n == 1)
		return nil
	}
}

func boolToNumber(to KindEnum) Func {
	return func(src, dst reflect.Value) error {
		var n int64
		if src.Bool() {
			n = 1
		}
		if to.IsSigned() {
			dst.SetInt(n)
		} else {
			dst.SetUint(uint64(n))
		}
		return nil
	}
}

func textToBool(src, dst reflect.Value) error {
	switch strings.ToLower(strings.TrimSpace(src.String())) {
	case "true", "yes", "on":
		dst.SetBool(true)
	case "false", "no", "off":
		dst.SetBool(false)
	default:
		return fmt.Errorf("%w: %q is not a boolean", ErrSyntax, src.String())
	}
	return nil
}

func boolToText(src, dst reflect.Value) error {
	dst.SetString(strconv.FormatBool(src.Bool()))
	return nil
}

func textToTime(src, dst reflect.Value) error {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(src.String()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	dst.Set(reflect.ValueOf(t))
	return nil
}

func timeToText(src, dst reflect.Value) error {
	dst.SetString(src.Interface().(time.Time).Format(time.RFC3339Nano))
	return nil
}

func unixToTime(from KindEnum) Func {
	return func(src, dst reflect.Value) error {
		n, ok := integerOf(from, src)
		if !ok {
			return fmt.Errorf("%w: timestamp %v", ErrOutOfRange, src.Interface())
		}
		dst.Set(reflect.ValueOf(time.Unix(n, 0)))
		return nil
	}
}

func timeToUnix(to KindEnum) Func {
	return func(src, dst reflect.Value) error {
		n := src.Interface().(time.Time).Unix()
		return setInteger(to, dst, n)
	}
}

func setInteger(to KindEnum, dst reflect.Value, n int64) error {
	if to.IsSigned() {
		if dst.OverflowInt(n) {
			return fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, n, to)
		}
		dst.SetInt(n)
		return nil
	}

	if n < 0 || dst.OverflowUint(uint64(n)) {
		return fmt.Errorf("%w: %d does not fit %s", ErrOutOfRange, n, to)
	}
	dst.SetUint(uint64(n))
	return nil
}

func textToDuration(src, dst reflect.Value) error {
	d, err := time.ParseDuration(strings.TrimSpace(src.String()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	dst.SetInt(int64(d))
	return nil
}

func durationToText(src, dst reflect.Value) error {
	dst.SetString(time.Duration(src.Int()).String())
	return nil
}

func nanosToDuration(from KindEnum) Func {
	return func(src, dst reflect.Value) error {
		n, ok := integerOf(from, src)
		if !ok {
			return fmt.Errorf("%w: nanoseconds %v", ErrOutOfRange, src.Interface())
		}
		dst.SetInt(n)
		return nil
	}
}

func durationToNanos(to KindEnum) Func {
	return func(src, dst reflect.Value) error {
		return setInteger(to, dst, src.Int())
	}
}

func secondsToDuration(src, dst reflect.Value) error {
	dst.SetInt(int64(src.Float() * float64(time.Second)))
	return nil
}

func durationToSeconds(src, dst reflect.Value) error {
	dst.SetFloat(time.Duration(src.Int()).Seconds())
	return nil
}

// enumText converts through the textual form of the source: String() when
// available, the value itself for string kinds.
func enumText(to KindEnum) Func {
	return func(src, dst reflect.Value) error {
		text, err := textOf(src)
		if err != nil {
			return err
		}

		if to == KindString {
			dst.SetString(text)
			return nil
		}

		parsed := reflect.New(dst.Type())
		if u, ok := parsed.Interface().(encoding.TextUnmarshaler); ok {
			if err := u.UnmarshalText([]byte(text)); err != nil {
				return fmt.Errorf("%w: %q as %s: %w", ErrSyntax, text, dst.Type(), err)
			}
			dst.Set(parsed.Elem())
			return nil
		}

		if dst.Kind() != reflect.String {
			return fmt.Errorf("%w: %s cannot be parsed from text", ErrNoText, dst.Type())
		}

		parsed.Elem().SetString(text)
		if v, ok := parsed.Elem().Interface().(interface{ IsValid() bool }); ok && !v.IsValid() {
			return fmt.Errorf("%w: %q is not a valid %s", ErrSyntax, text, dst.Type())
		}
		dst.Set(parsed.Elem())
		return nil
	}
}

func textOf(src reflect.Value) (string, error) {
	if src.Type().Implements(stringerType) && src.CanInterface() {
		return src.Interface().(fmt.Stringer).String(), nil
	}
	if src.Kind() == reflect.String {
		return src.String(), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoText, src.Type())
}
