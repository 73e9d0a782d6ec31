package mapping

import (
	"slices"

	"common-tools/internal/analyze"
	"common-tools/primitive"
)

// MappingFile represents the root of a profile file.
type MappingFile struct {
	// Version of the profile schema.
	Version string `yaml:"version,omitempty" validate:"omitempty,oneof=1"`

	// TypeMappings is a list of type pair profiles.
	TypeMappings []TypeMapping `yaml:"mappings" validate:"dive"`
}

// TypeMapping defines how to copy one source type into one target type.
type TypeMapping struct {
	// Source type reference (e.g., "convert.EmployeeDO" or full path).
	Source string `yaml:"source" validate:"required"`

	// Target type reference (e.g., "convert.EmployeeVO" or full path).
	Target string `yaml:"target" validate:"required"`

	// OneToOne maps source field names to target field names.
	// Priority: highest.
	OneToOne map[string]string `yaml:"121,omitempty" validate:"dive,keys,goident,endkeys,goident"`

	// Fields defines explicit field mappings, optionally with a textual
	// default used when the source field is missing.
	Fields []FieldMapping `yaml:"fields,omitempty" validate:"dive"`

	// Ignore lists target fields that are never written.
	Ignore StringOrArray `yaml:"ignore,omitempty" validate:"dive,goident"`

	// Categories enables scalar conversion families for this pair, by name
	// (see primitive.ParseCategory).
	Categories StringOrArray `yaml:"categories,omitempty" validate:"dive,category"`

	// Loose enables normalized name matching for this pair.
	Loose bool `yaml:"loose,omitempty"`
}

// FieldMapping is one explicit target field assignment.
type FieldMapping struct {
	// Source field name, optional when Default is set.
	Source string `yaml:"source,omitempty" validate:"omitempty,goident"`

	// Target field name.
	Target string `yaml:"target" validate:"required,goident"`

	// Default is the textual value written when Source is empty or absent.
	Default *string `yaml:"default,omitempty"`
}

// Matches reports whether the profile applies to the given type pair.
func (tm *TypeMapping) Matches(src, dst analyze.TypeID) bool {
	return src.Matches(tm.Source) && dst.Matches(tm.Target)
}

// Renames returns target field name -> source field name for every pinned
// field, 121 entries winning over fields entries.
func (tm *TypeMapping) Renames() map[string]string {
	out := make(map[string]string, len(tm.OneToOne)+len(tm.Fields))
	for _, f := range tm.Fields {
		if f.Source != "" {
			out[f.Target] = f.Source
		}
	}
	for source, target := range tm.OneToOne {
		out[target] = source
	}
	return out
}

// Defaults returns target field name -> textual default.
func (tm *TypeMapping) Defaults() map[string]string {
	out := make(map[string]string)
	for _, f := range tm.Fields {
		if f.Default != nil {
			out[f.Target] = *f.Default
		}
	}
	return out
}

// Ignores reports whether target field name is ignored.
func (tm *TypeMapping) Ignores(name string) bool {
	return slices.Contains(tm.Ignore, name)
}

// CategorySet combines the named categories. Names were validated on load.
func (tm *TypeMapping) CategorySet() primitive.CategoryEnum {
	var out primitive.CategoryEnum
	for _, name := range tm.Categories {
		c, _ := primitive.ParseCategory(name)
		out |= c
	}
	return out
}

// Find returns the first profile for the type pair.
func (mf *MappingFile) Find(src, dst analyze.TypeID) (*TypeMapping, bool) {
	if mf == nil {
		return nil, false
	}

	for i := range mf.TypeMappings {
		if mf.TypeMappings[i].Matches(src, dst) {
			return &mf.TypeMappings[i], true
		}
	}

	return nil, false
}
