package plan

import (
	"errors"
	"fmt"
	"reflect"

	"common-tools/internal/analyze"
)

var (
	ErrTypeMismatch = errors.New("value does not match the planned type")
	ErrUnsettable   = errors.New("target field cannot be set")
)

// FieldError reports a failed field assignment.
type FieldError struct {
	Pair     string
	Source   string
	Target   string
	Strategy ConversionStrategy
	Err      error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("copy %s: %s -> %s (%s): %v", e.Pair, e.Source, e.Target, e.Strategy, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IndexError reports the failing element of a slice conversion.
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d: %v", e.Index, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// Apply copies src into dst according to the plan. src is a struct value of
// the source type (or a non-nil pointer to one); dst must be an addressable
// struct value of the target type or a non-nil pointer to one.
func (p *Plan) Apply(src, dst reflect.Value) error {
	src = reflect.Indirect(src)
	dst = reflect.Indirect(dst)

	if !src.IsValid() || !dst.IsValid() {
		return fmt.Errorf("%w: nil value for plan %s", ErrTypeMismatch, p.Pair())
	}

	if src.Type() != p.Source.Type || dst.Type() != p.Target.Type {
		return fmt.Errorf("%w: %s->%s for plan %s", ErrTypeMismatch, src.Type(), dst.Type(), p.Pair())
	}

	if !dst.CanSet() {
		return fmt.Errorf("%w: target %s is not addressable", ErrTypeMismatch, dst.Type())
	}

	for i := range p.Fields {
		if err := p.Fields[i].apply(p, src, dst); err != nil {
			return err
		}
	}

	return nil
}

func (f *FieldPlan) apply(p *Plan, src, dst reflect.Value) error {
	if f.Strategy == StrategyIgnore {
		return nil
	}

	var (
		in       reflect.Value
		hasValue bool
	)

	if f.Source != nil {
		in, hasValue = analyze.Read(src, f.Source.Index)
	}

	useDefault := f.Default != nil && (!hasValue || in.IsZero())
	if !hasValue && !useDefault {
		return nil
	}

	out, ok := analyze.Write(dst, f.Target.Index)
	if !ok {
		return f.fail(p, ErrUnsettable)
	}

	if useDefault {
		out.Set(f.defaultValue)
		return nil
	}

	if err := f.conv(in, out); err != nil {
		return f.fail(p, err)
	}

	return nil
}

func (f *FieldPlan) fail(p *Plan, err error) error {
	source := "-"
	if f.Source != nil {
		source = f.Source.Name
	}

	return &FieldError{
		Pair:     p.Pair(),
		Source:   source,
		Target:   f.Target.Name,
		Strategy: f.Strategy,
		Err:      err,
	}
}
