// Package kvenum defines the contract shared by closed enumerations that
// carry a code and a human readable description.
package kvenum

// KV is implemented by enum values that expose a code and a description.
type KV[C comparable] interface {
	Code() C
	Desc() string
}

// Key is the constraint for values that can key a strategy registry.
type Key interface {
	comparable
	Desc() string
}

// ByCode returns the first value whose code equals code.
func ByCode[E KV[C], C comparable](values []E, code C) (E, bool) {
	for _, v := range values {
		if v.Code() == code {
			return v, true
		}
	}

	var zero E
	return zero, false
}

// Descs maps every value to its description, keyed by code.
func Descs[E KV[C], C comparable](values []E) map[C]string {
	out := make(map[C]string, len(values))
	for _, v := range values {
		out[v.Code()] = v.Desc()
	}
	return out
}
