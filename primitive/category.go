package primitive

import (
	"math/bits"
	"strings"
)

// CategoryEnum is a bit set of conversion families between scalar kinds.
type CategoryEnum int

type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryTextNumber                            // int, uint, float <-> string
	CategoryNumericBool                           // int <-> bool as 0 and 1
	CategoryTextualBool                           // string <-> bool as yes/no, on/off, true/false
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time
	CategoryDuration                              // string(2h45m) <-> time.Duration
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration
	CategorySeconds                               // float(seconds) <-> time.Duration
	CategoryEnumString                            // string <-> enum via String/IsValid/UnmarshalText

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected
)

var categoryNames = []string{
	"safe_number",
	"unsafe_number",
	"text_number",
	"numeric_bool",
	"textual_bool",
	"datetime",
	"timestamp",
	"duration",
	"nanoseconds",
	"seconds",
	"enum_string",
}

var conversionPairs = buildConversionPairs()

func kinds(filter func(KindEnum) bool) []KindEnum {
	var out []KindEnum
	for k := KindEnum(1); int(k) < KindTotal; k++ {
		if filter(k) {
			out = append(out, k)
		}
	}
	return out
}

func buildConversionPairs() map[CategoryEnum]map[ConversionPair]struct{} {
	pairs := make(map[CategoryEnum]map[ConversionPair]struct{})
	add := func(c CategoryEnum, from, to KindEnum) {
		if pairs[c] == nil {
			pairs[c] = make(map[ConversionPair]struct{})
		}
		pairs[c][ConversionPair{from, to}] = struct{}{}
	}
	both := func(c CategoryEnum, a, b KindEnum) {
		add(c, a, b)
		add(c, b, a)
	}

	numbers := kinds(KindEnum.IsNumber)
	integers := kinds(KindEnum.IsInteger)

	pairs[CategorySafeNumber] = safeNumberConversionPairs()
	for _, from := range numbers {
		for _, to := range numbers {
			if _, safe := pairs[CategorySafeNumber][ConversionPair{from, to}]; !safe {
				add(CategoryUnsafeNumber, from, to)
			}
		}
	}

	for _, n := range numbers {
		both(CategoryTextNumber, n, KindString)
	}

	for _, n := range integers {
		both(CategoryNumericBool, n, KindBool)
		both(CategoryTimestamp, n, KindTime)
		if n != KindUint64 {
			both(CategoryNanoseconds, n, KindDuration)
		}
	}

	both(CategoryTextualBool, KindString, KindBool)
	both(CategoryDatetime, KindString, KindTime)
	both(CategoryDuration, KindString, KindDuration)
	both(CategorySeconds, KindFloat32, KindDuration)
	both(CategorySeconds, KindFloat64, KindDuration)
	both(CategoryEnumString, KindString, KindPrimitiveEnum)
	add(CategoryEnumString, KindPrimitiveEnum, KindPrimitiveEnum)

	return pairs
}

func safeNumberConversionPairs() map[ConversionPair]struct{} {
	return map[ConversionPair]struct{}{
		{KindInt, KindInt}:   {}, // int is 32 or 64 bits wide
		{KindInt, KindInt64}: {},

		{KindInt8, KindInt}:     {},
		{KindInt8, KindInt8}:    {},
		{KindInt8, KindInt16}:   {},
		{KindInt8, KindInt32}:   {},
		{KindInt8, KindInt64}:   {},
		{KindInt8, KindFloat32}: {},
		{KindInt8, KindFloat64}: {},

		{KindInt16, KindInt}:     {},
		{KindInt16, KindInt16}:   {},
		{KindInt16, KindInt32}:   {},
		{KindInt16, KindInt64}:   {},
		{KindInt16, KindFloat32}: {},
		{KindInt16, KindFloat64}: {},

		{KindInt32, KindInt}:     {},
		{KindInt32, KindInt32}:   {},
		{KindInt32, KindInt64}:   {},
		{KindInt32, KindFloat64}: {}, // float32 mantissa is too narrow

		{KindInt64, KindInt64}: {},

		{KindUint, KindUint}:   {},
		{KindUint, KindUint64}: {},

		{KindUint8, KindUint}:    {},
		{KindUint8, KindUint8}:   {},
		{KindUint8, KindUint16}:  {},
		{KindUint8, KindUint32}:  {},
		{KindUint8, KindUint64}:  {},
		{KindUint8, KindInt}:     {},
		{KindUint8, KindInt16}:   {},
		{KindUint8, KindInt32}:   {},
		{KindUint8, KindInt64}:   {},
		{KindUint8, KindFloat32}: {},
		{KindUint8, KindFloat64}: {},

		{KindUint16, KindUint}:    {},
		{KindUint16, KindUint16}:  {},
		{KindUint16, KindUint32}:  {},
		{KindUint16, KindUint64}:  {},
		{KindUint16, KindInt}:     {},
		{KindUint16, KindInt32}:   {},
		{KindUint16, KindInt64}:   {},
		{KindUint16, KindFloat32}: {},
		{KindUint16, KindFloat64}: {},

		{KindUint32, KindUint32}:  {},
		{KindUint32, KindUint64}:  {},
		{KindUint32, KindInt64}:   {},
		{KindUint32, KindFloat64}: {},

		{KindUint64, KindUint64}: {},

		{KindFloat32, KindFloat32}: {},
		{KindFloat32, KindFloat64}: {},

		{KindFloat64, KindFloat64}: {},
	}
}

// Has reports whether every category of other is set in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

// Single returns the set bits of c one category at a time, lowest first.
func (c CategoryEnum) Single() []CategoryEnum {
	var out []CategoryEnum
	for rest := uint(c & CategoryAll); rest != 0; rest &= rest - 1 {
		out = append(out, CategoryEnum(1)<<bits.TrailingZeros(rest))
	}
	return out
}

func (c CategoryEnum) String() string {
	if c == CategoryNone {
		return "none"
	}

	names := make([]string, 0, len(categoryNames))
	for _, single := range c.Single() {
		names = append(names, categoryNames[bits.TrailingZeros(uint(single))])
	}
	return strings.Join(names, "|")
}

// ParseCategory parses a category name as printed by String. Combined
// categories are separated with '|'.
func ParseCategory(s string) (CategoryEnum, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none":
		return CategoryNone, true
	case "all":
		return CategoryAll, true
	}

	var out CategoryEnum
	for part := range strings.SplitSeq(s, "|") {
		found := false
		for i, name := range categoryNames {
			if name == strings.TrimSpace(part) {
				out |= CategoryEnum(1) << i
				found = true
				break
			}
		}
		if !found {
			return CategoryNone, false
		}
	}
	return out, true
}

// CategoryOf returns the first category in allowed that covers pair.
func CategoryOf(pair ConversionPair, allowed CategoryEnum) (CategoryEnum, bool) {
	for _, single := range allowed.Single() {
		if _, ok := conversionPairs[single][pair]; ok {
			return single, true
		}
	}
	return CategoryNone, false
}
