package strategy

import (
	"errors"
	"fmt"
	"sync"

	"common-tools/internal/common"
	"common-tools/utils"
)

var (
	ErrDuplicateBean = errors.New("duplicate bean name")
	ErrNilBean       = errors.New("nil bean")
)

// Container is a named set of beans. It only looks beans up; building and
// wiring them is left to the caller.
type Container struct {
	mu    sync.RWMutex
	beans map[string]any
}

// NewContainer returns an empty Container.
func NewContainer() *Container {
	return &Container{beans: make(map[string]any)}
}

// Register adds bean under name.
func (c *Container) Register(name string, bean any) error {
	if utils.IsNil(bean) {
		return fmt.Errorf("%w: %q", ErrNilBean, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.beans[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateBean, name)
	}
	c.beans[name] = bean

	return nil
}

// Get returns the bean registered under name.
func (c *Container) Get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bean, ok := c.beans[name]
	return bean, ok
}

// Names returns the bean names in ascending order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return common.SortedKeys(c.beans)
}

// BeansOfType returns every bean of c implementing S, by name.
func BeansOfType[S any](c *Container) map[string]S {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]S)
	for name, bean := range c.beans {
		if s, ok := bean.(S); ok {
			out[name] = s
		}
	}
	return out
}
