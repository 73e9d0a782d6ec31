package convert

import (
	"fmt"

	"common-tools/internal/mapping"
	"common-tools/internal/plan"
	"common-tools/logger"
	"common-tools/primitive"
)

// Option configures a Copier.
type Option func(*options)

type options struct {
	config  plan.ResolutionConfig
	casters []any
	logger  logger.Logger
}

func newOptions(opts []Option) options {
	o := options{
		config: plan.DefaultConfig(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) resolutionConfig() (plan.ResolutionConfig, error) {
	cfg := o.config
	if len(o.casters) == 0 {
		return cfg, nil
	}

	registry := cfg.Casters.Clone()
	for _, fn := range o.casters {
		if _, err := registry.Register(fn); err != nil {
			return cfg, fmt.Errorf("register caster %T: %w", fn, err)
		}
	}
	cfg.Casters = registry

	return cfg, nil
}

// WithIgnore never writes the named target fields.
func WithIgnore(fields ...string) Option {
	return func(o *options) {
		o.config.Ignore = append(o.config.Ignore, fields...)
	}
}

// WithLooseNames matches fields whose normalized names are equal, so that
// Customer_ID fills CustomerID.
func WithLooseNames() Option {
	return func(o *options) {
		o.config.Loose = true
	}
}

// WithCategories enables scalar conversions between different kinds, e.g.
// primitive.CategoryTextNumber for string <-> int.
func WithCategories(categories primitive.CategoryEnum) Option {
	return func(o *options) {
		o.config.Categories |= categories
	}
}

// WithCaster registers a conversion function used whenever a source field
// of its parameter type meets a target field of its result type. See
// ParseCaster in the caster package for accepted signatures.
func WithCaster(fn any) Option {
	return func(o *options) {
		o.casters = append(o.casters, fn)
	}
}

// WithProfiles applies YAML profiles to the type pairs they name.
func WithProfiles(p *Profiles) Option {
	return func(o *options) {
		if p != nil {
			o.config.Profiles = p.file
		}
	}
}

// WithStrict fails when a target field has no source.
func WithStrict() Option {
	return func(o *options) {
		o.config.StrictMode = true
	}
}

// WithLogger sets the logger receiving plan diagnostics and list failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Profiles is a validated set of YAML copy profiles.
type Profiles struct {
	file *mapping.MappingFile
}

// LoadProfiles reads profiles from a YAML file.
func LoadProfiles(path string) (*Profiles, error) {
	file, err := mapping.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Profiles{file: file}, nil
}

// ParseProfiles reads profiles from YAML data.
func ParseProfiles(data []byte) (*Profiles, error) {
	file, err := mapping.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Profiles{file: file}, nil
}

// Len returns the number of profiles.
func (p *Profiles) Len() int {
	return len(p.file.TypeMappings)
}
