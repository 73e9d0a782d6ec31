package primitive_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"common-tools/primitive"
)

type color string

func (c color) IsValid() bool {
	return c == "red" || c == "green"
}

type level int

func (l level) String() string {
	return [...]string{"low", "high"}[l]
}

func (l *level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*l = 0
	case "high":
		*l = 1
	default:
		return errors.New("unknown level")
	}
	return nil
}

func convert[T any](t *testing.T, src any, allowed primitive.CategoryEnum) (T, primitive.CategoryEnum, error) {
	t.Helper()

	var dst T
	fn, category, ok := primitive.Converter(reflect.TypeOf(src), reflect.TypeFor[T](), allowed)
	require.True(t, ok, "no conversion %T -> %T", src, dst)

	err := fn(reflect.ValueOf(src), reflect.ValueOf(&dst).Elem())
	return dst, category, err
}

func TestConverter(t *testing.T) {
	t.Run("safe number", func(t *testing.T) {
		got, category, err := convert[int64](t, int32(42), primitive.CategoryAll)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
		assert.Equal(t, primitive.CategorySafeNumber, category)
	})

	t.Run("unsafe number truncates", func(t *testing.T) {
		got, category, err := convert[int](t, 3.9, primitive.CategoryUnsafeNumber)
		require.NoError(t, err)
		assert.Equal(t, 3, got)
		assert.Equal(t, primitive.CategoryUnsafeNumber, category)
	})

	t.Run("text number", func(t *testing.T) {
		got, _, err := convert[string](t, 1.5, primitive.CategoryTextNumber)
		require.NoError(t, err)
		assert.Equal(t, "1.5", got)

		n, _, err := convert[uint16](t, " 65535 ", primitive.CategoryTextNumber)
		require.NoError(t, err)
		assert.Equal(t, uint16(65535), n)

		_, _, err = convert[int8](t, "300", primitive.CategoryTextNumber)
		assert.ErrorIs(t, err, primitive.ErrSyntax)
	})

	t.Run("numeric bool", func(t *testing.T) {
		got, _, err := convert[bool](t, 1, primitive.CategoryNumericBool)
		require.NoError(t, err)
		assert.True(t, got)

		_, _, err = convert[bool](t, 2, primitive.CategoryNumericBool)
		assert.ErrorIs(t, err, primitive.ErrOutOfRange)

		n, _, err := convert[uint8](t, true, primitive.CategoryNumericBool)
		require.NoError(t, err)
		assert.Equal(t, uint8(1), n)
	})

	t.Run("textual bool", func(t *testing.T) {
		for _, text := range []string{"yes", "ON", "true"} {
			got, _, err := convert[bool](t, text, primitive.CategoryTextualBool)
			require.NoError(t, err)
			assert.True(t, got, text)
		}
		_, _, err := convert[bool](t, "maybe", primitive.CategoryTextualBool)
		assert.ErrorIs(t, err, primitive.ErrSyntax)
	})

	t.Run("datetime and timestamp", func(t *testing.T) {
		ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

		text, _, err := convert[string](t, ts, primitive.CategoryDatetime)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-06T07:08:09Z", text)

		back, _, err := convert[time.Time](t, text, primitive.CategoryDatetime)
		require.NoError(t, err)
		assert.True(t, ts.Equal(back))

		unix, _, err := convert[int64](t, ts, primitive.CategoryTimestamp)
		require.NoError(t, err)
		assert.Equal(t, ts.Unix(), unix)

		_, _, err = convert[uint32](t, time.Unix(-5, 0), primitive.CategoryTimestamp)
		assert.ErrorIs(t, err, primitive.ErrOutOfRange)
	})

	t.Run("durations", func(t *testing.T) {
		d, _, err := convert[time.Duration](t, "2h45m", primitive.CategoryDuration)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour+45*time.Minute, d)

		secs, _, err := convert[float64](t, 1500*time.Millisecond, primitive.CategorySeconds)
		require.NoError(t, err)
		assert.InDelta(t, 1.5, secs, 1e-9)

		nanos, _, err := convert[int64](t, time.Microsecond, primitive.CategoryNanoseconds)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), nanos)
	})

	t.Run("enum string", func(t *testing.T) {
		c, _, err := convert[color](t, "red", primitive.CategoryEnumString)
		require.NoError(t, err)
		assert.Equal(t, color("red"), c)

		_, _, err = convert[color](t, "blue", primitive.CategoryEnumString)
		assert.ErrorIs(t, err, primitive.ErrSyntax)

		l, _, err := convert[level](t, "high", primitive.CategoryEnumString)
		require.NoError(t, err)
		assert.Equal(t, level(1), l)

		text, _, err := convert[string](t, level(0), primitive.CategoryEnumString)
		require.NoError(t, err)
		assert.Equal(t, "low", text)

		c2, _, err := convert[color](t, level(0), primitive.CategoryEnumString)
		assert.ErrorIs(t, err, primitive.ErrSyntax)
		assert.Equal(t, color(""), c2)
	})

	t.Run("not allowed", func(t *testing.T) {
		_, _, ok := primitive.Converter(reflect.TypeFor[string](), reflect.TypeFor[int](), primitive.CategorySafeNumber)
		assert.False(t, ok)

		_, _, ok = primitive.Converter(reflect.TypeFor[struct{}](), reflect.TypeFor[int](), primitive.CategoryAll)
		assert.False(t, ok)
	})
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "none", primitive.CategoryNone.String())
	assert.Equal(t, "safe_number|text_number", (primitive.CategorySafeNumber | primitive.CategoryTextNumber).String())
	assert.Len(t, primitive.CategoryAll.Single(), 11)
	assert.True(t, primitive.CategoryAll.Has(primitive.CategorySeconds))

	parsed, ok := primitive.ParseCategory("Datetime | seconds")
	require.True(t, ok)
	assert.Equal(t, primitive.CategoryDatetime|primitive.CategorySeconds, parsed)

	all, ok := primitive.ParseCategory("all")
	require.True(t, ok)
	assert.Equal(t, primitive.CategoryAll, all)

	_, ok = primitive.ParseCategory("bogus")
	assert.False(t, ok)

	assert.True(t, strings.HasPrefix(primitive.CategoryAll.String(), "safe_number|unsafe_number"))
}

func TestKindBits(t *testing.T) {
	assert.Equal(t, 16, primitive.KindUint16.Bits())
	assert.Equal(t, 64, primitive.KindFloat64.Bits())
	assert.Panics(t, func() { primitive.KindString.Bits() })
	assert.False(t, primitive.KindEnum(0).IsValid())
	assert.True(t, primitive.KindPrimitiveEnum.IsValid())
}
