// Package caster parses and invokes user supplied conversion functions.
package caster

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"common-tools/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
	ErrRejected             = errors.New("caster rejected the value")
)

var errorType = reflect.TypeFor[error]()

// Caster describes a conversion function from Src to Dst.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects fn and returns its description when it has one of
// the supported shapes:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrIsNotACaster
	}

	src, dst := fnType.In(0), fnType.Out(0)
	if isDoublePointer(src) || isDoublePointer(dst) {
		return Caster{}, ErrDoublePointer
	}

	alias, name := utils.Unpack2(strings.SplitN(runtime.FuncForPC(fnVal.Pointer()).Name(), ".", 2))

	c := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: utils.Second(path.Split(alias)),
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	case 1:
		return c, nil

	case 2:
		switch last := fnType.Out(1); {
		case last.Kind() == reflect.Bool:
			c.HasBool = true
		case isError(last):
			c.HasErr = true
		default:
			return Caster{}, ErrIsNotACaster
		}
		return c, nil

	case 3:
		if fnType.Out(1).Kind() != reflect.Bool || !isError(fnType.Out(2)) {
			return Caster{}, ErrIsNotACaster
		}
		c.HasBool = true
		c.HasErr = true
		return c, nil

	default:
		return Caster{}, ErrIsNotACaster
	}
}

// String returns alias.Name of the function.
func (c Caster) String() string {
	if c.PackageAlias == "" {
		return c.Name
	}
	return c.PackageAlias + "." + c.Name
}

// Call invokes the caster with src. A false boolean result is reported as
// ErrRejected.
func (c Caster) Call(src reflect.Value) (reflect.Value, error) {
	out := c.fn.Call([]reflect.Value{src})

	if c.HasErr {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return reflect.Value{}, fmt.Errorf("%s: %w", c, errVal.Interface().(error))
		}
	}

	if c.HasBool && !out[1].Bool() {
		return reflect.Value{}, fmt.Errorf("%s: %w", c, ErrRejected)
	}

	return out[0], nil
}

func isDoublePointer(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Pointer
}

func isError(t reflect.Type) bool {
	return t != nil && t.Implements(errorType)
}

// Registry holds casters keyed by their (source, target) type pair.
type Registry struct {
	mu      sync.RWMutex
	casters map[[2]reflect.Type]Caster
}

func NewRegistry() *Registry {
	return &Registry{casters: make(map[[2]reflect.Type]Caster)}
}

// Register parses fn and stores it, replacing any caster for the same pair.
func (r *Registry) Register(fn any) (Caster, error) {
	c, err := ParseCaster(fn)
	if err != nil {
		return Caster{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.casters[[2]reflect.Type{c.Src, c.Dst}] = c

	return c, nil
}

// Lookup returns the caster converting src into dst.
func (r *Registry) Lookup(src, dst reflect.Type) (Caster, bool) {
	if r == nil {
		return Caster{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.casters[[2]reflect.Type{src, dst}]

	return c, ok
}

// Len returns the number of registered casters.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.casters)
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	clone := NewRegistry()
	if r == nil {
		return clone
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for k, v := range r.casters {
		clone.casters[k] = v
	}

	return clone
}
