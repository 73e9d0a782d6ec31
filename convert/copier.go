package convert

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"common-tools/internal/plan"
	"common-tools/logger"
)

var (
	ErrNilSupplier   = errors.New("convert: nil supplier")
	ErrInvalidTarget = errors.New("convert: target must be a non-nil pointer to a struct")
)

// FieldError reports the field whose assignment failed.
type FieldError = plan.FieldError

// Copier copies struct values field by field. Plans are resolved once per
// (source, target) type pair and cached; a Copier is safe for concurrent use.
type Copier struct {
	resolver *plan.Resolver
	logger   logger.Logger
	plans    sync.Map // map[[2]reflect.Type]*plan.Plan
}

// NewCopier builds a Copier. It fails when a caster has an unsupported
// signature.
func NewCopier(opts ...Option) (*Copier, error) {
	o := newOptions(opts)

	cfg, err := o.resolutionConfig()
	if err != nil {
		return nil, err
	}

	return &Copier{
		resolver: plan.NewResolver(cfg),
		logger:   o.logger.Named("convert"),
	}, nil
}

var defaultCopier = sync.OnceValue(func() *Copier {
	c, _ := NewCopier()
	return c
})

// copierFor returns the shared copier, or a fresh one when options are given.
func copierFor(opts []Option) (*Copier, error) {
	if len(opts) == 0 {
		return defaultCopier(), nil
	}
	return NewCopier(opts...)
}

func (c *Copier) plan(src, dst reflect.Type) (*plan.Plan, error) {
	key := [2]reflect.Type{src, dst}
	if cached, ok := c.plans.Load(key); ok {
		return cached.(*plan.Plan), nil
	}

	p, err := c.resolver.Resolve(src, dst)
	if err != nil {
		return nil, err
	}

	if actual, loaded := c.plans.LoadOrStore(key, p); loaded {
		return actual.(*plan.Plan), nil
	}

	c.logger.Debugw("copy plan resolved",
		"pair", p.Pair(),
		"fields", len(p.Fields),
		"unmapped", len(p.Unmapped),
		"plan", p.Dump(),
	)
	p.Diagnostics.Log(c.logger)

	return p, nil
}

func structPointer(v reflect.Value) bool {
	return v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Struct
}

// CopyValue copies source (a struct or a pointer to one) into target, a
// non-nil pointer to a struct.
func (c *Copier) CopyValue(source, target any) error {
	dst := reflect.ValueOf(target)
	if !structPointer(dst) {
		return ErrInvalidTarget
	}

	src := reflect.ValueOf(source)
	if !src.IsValid() {
		return nil
	}
	if src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return nil
		}
		src = src.Elem()
	}

	return c.copyValue(src, dst)
}

func (c *Copier) copyValue(src, dst reflect.Value) error {
	p, err := c.plan(reflect.Indirect(src).Type(), dst.Type().Elem())
	if err != nil {
		return err
	}

	return p.Apply(src, dst)
}

// Explain describes how values of source's type are copied into values of
// target's type, one line per target field.
func (c *Copier) Explain(source, target any) (string, error) {
	src, dst := reflect.TypeOf(source), reflect.TypeOf(target)
	if src == nil || dst == nil {
		return "", fmt.Errorf("%w: nil type", ErrInvalidTarget)
	}

	p, err := c.plan(deref(src), deref(dst))
	if err != nil {
		return "", err
	}

	return p.String(), nil
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
