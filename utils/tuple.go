package utils

// Second returns the second of two values, handy for discarding the first
// result of a two-value call inline.
func Second[T any](_ any, t T) T { return t }

// Unpack2 returns the first two elements of s, zero values standing in for
// missing ones.
func Unpack2[Slice ~[]T, T any](s Slice) (first T, second T) {
	switch len(s) {
	default:
		return s[0], s[1]
	case 0:
		return
	case 1:
		first = s[0]
		return
	}
}
