// Package strategy selects interchangeable implementations by enum key.
//
// A Factory asks every bean implementing its strategy type for the keys it
// handles and serves lookups from the resulting table:
//
//	f := strategy.New(func(s Notifier) []kvenum.Enable { return s.Handles() })
//	if err := f.Init(container); err != nil { ... }
//	f.Execute(kvenum.EnableYes, func(s Notifier) { s.Notify() })
package strategy

import (
	"errors"
	"reflect"
	"sync"

	"common-tools/internal/common"
	"common-tools/kvenum"
	"common-tools/logger"
	"common-tools/utils"
)

var ErrNilContainer = errors.New("nil container")

// Option configures a Factory.
type Option func(*options)

type options struct {
	name   string
	logger logger.Logger
}

// WithLogger sets the logger reporting loads and replaced keys.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName names the factory in its log entries.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Factory maps enum keys to strategies of type S. Lookups are safe for
// concurrent use, including while loading.
type Factory[K kvenum.Key, S any] struct {
	keysOf func(S) []K
	name   string
	logger logger.Logger

	mu         sync.RWMutex
	strategies map[K]S
	owners     map[K]string
	order      []K
}

// New returns an empty Factory. keys reports the keys a strategy handles
// and must not be nil.
func New[K kvenum.Key, S any](keys func(S) []K, opts ...Option) *Factory[K, S] {
	if keys == nil {
		panic("strategy: nil key extractor")
	}

	o := options{name: reflect.TypeFor[S]().String(), logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Factory[K, S]{
		keysOf:     keys,
		name:       o.name,
		logger:     o.logger.Named("strategy").With("factory", o.name),
		strategies: make(map[K]S),
		owners:     make(map[K]string),
	}
}

// Name returns the factory name.
func (f *Factory[K, S]) Name() string {
	return f.name
}

// Init registers every bean of c implementing S.
func (f *Factory[K, S]) Init(c *Container) error {
	if c == nil {
		return ErrNilContainer
	}

	f.Load(BeansOfType[S](c))
	return nil
}

// Load registers beans in ascending name order. A key claimed by a later
// bean is moved to it. The key extractor runs before the table is locked.
func (f *Factory[K, S]) Load(beans map[string]S) {
	type claim struct {
		name string
		bean S
		keys []K
	}

	claims := make([]claim, 0, len(beans))
	for _, name := range common.SortedKeys(beans) {
		bean := beans[name]
		if utils.IsNil(bean) {
			f.logger.Warnw("nil strategy skipped", "bean", name)
			continue
		}
		claims = append(claims, claim{name: name, bean: bean, keys: f.keysOf(bean)})
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range claims {
		for _, key := range c.keys {
			if owner, ok := f.owners[key]; ok {
				if owner != c.name {
					f.logger.Warnw("strategy key replaced", "key", key.Desc(), "previous", owner, "bean", c.name)
				}
			} else {
				f.order = append(f.order, key)
			}

			f.strategies[key] = c.bean
			f.owners[key] = c.name
		}
	}

	f.logger.Infow("strategies loaded", "beans", len(beans), "keys", len(f.strategies))
}

// Get returns the strategy registered for key.
func (f *Factory[K, S]) Get(key K) (S, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	s, ok := f.strategies[key]
	return s, ok
}

// Execute calls fn with the strategy registered for key. It reports false,
// without calling fn, when there is none.
func (f *Factory[K, S]) Execute(key K, fn func(S)) bool {
	s, ok := f.Get(key)
	if !ok || fn == nil {
		return false
	}

	fn(s)
	return true
}

// Keys returns the registered keys in registration order.
func (f *Factory[K, S]) Keys() []K {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]K, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the number of registered keys.
func (f *Factory[K, S]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.strategies)
}
