package codec

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrEncode = errors.New("encode failed")
	ErrDecode = errors.New("decode failed")

	ErrInvalidTarget = errors.New("target must be a non-nil pointer")
	ErrSyntax        = errors.New("malformed input")
)

// maxInputLen bounds the input echoed by Error.
const maxInputLen = 512

// Format is a text format handled by a Mapper.
type Format int

const (
	FormatJSON Format = iota
	FormatXML
)

func (f Format) String() string {
	if f == FormatXML {
		return "xml"
	}
	return "json"
}

// Op is the direction of a conversion.
type Op int

const (
	OpEncode Op = iota
	OpDecode
)

// Error reports a failed conversion. It matches ErrEncode or ErrDecode
// with errors.Is, depending on Op.
type Error struct {
	Format Format
	Op     Op
	Input  string // decoded text, truncated
	Err    error
}

func newEncodeError(f Format, err error) *Error {
	return &Error{Format: f, Op: OpEncode, Err: err}
}

func newDecodeError(f Format, input string, err error) *Error {
	return &Error{Format: f, Op: OpDecode, Input: truncate(input), Err: err}
}

func (e *Error) Error() string {
	if e.Op == OpEncode {
		return fmt.Sprintf("not able to convert object to %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("not able to convert %s string: %s: %v", e.Format, e.Input, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return (target == ErrEncode && e.Op == OpEncode) ||
		(target == ErrDecode && e.Op == OpDecode)
}

func truncate(s string) string {
	if len(s) <= maxInputLen {
		return s
	}

	cut := maxInputLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + "..."
}
