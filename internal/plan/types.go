package plan

import (
	"fmt"
	"reflect"
	"strings"

	"common-tools/internal/analyze"
	"common-tools/internal/common"
	"common-tools/internal/diagnostic"
	"common-tools/primitive"
)

// ConversionStrategy describes how a field value is produced.
type ConversionStrategy int

const (
	// StrategyDirectAssign - types are identical or assignable.
	StrategyDirectAssign ConversionStrategy = iota
	// StrategyConvert - Go conversion between types of the same kind.
	StrategyConvert
	// StrategyPointerDeref - dereference, a nil source yields the zero value.
	StrategyPointerDeref
	// StrategyPointerWrap - copy into a freshly allocated pointer.
	StrategyPointerWrap
	// StrategyPointerCast - pointer to pointer with a converted element.
	StrategyPointerCast
	// StrategySliceMap - element-wise slice conversion.
	StrategySliceMap
	// StrategyPrimitive - scalar conversion from an allowed category.
	StrategyPrimitive
	// StrategyTransform - registered caster function.
	StrategyTransform
	// StrategyDefault - textual default from a profile.
	StrategyDefault
	// StrategyIgnore - explicitly ignored field.
	StrategyIgnore
)

func (s ConversionStrategy) String() string {
	switch s {
	case StrategyDirectAssign:
		return "direct_assign"
	case StrategyConvert:
		return "convert"
	case StrategyPointerDeref:
		return "pointer_deref"
	case StrategyPointerWrap:
		return "pointer_wrap"
	case StrategyPointerCast:
		return "pointer_cast"
	case StrategySliceMap:
		return "slice_map"
	case StrategyPrimitive:
		return "primitive"
	case StrategyTransform:
		return "transform"
	case StrategyDefault:
		return "default"
	case StrategyIgnore:
		return "ignore"
	default:
		return common.UnknownStr
	}
}

// MappingSource indicates which rule selected the source field.
type MappingSource int

const (
	MappingSourceProfile121 MappingSource = iota
	MappingSourceProfileFields
	MappingSourceIgnore
	MappingSourceTag
	MappingSourceExact
	MappingSourceLoose
	MappingSourceDefault
)

func (s MappingSource) String() string {
	switch s {
	case MappingSourceProfile121:
		return "profile:121"
	case MappingSourceProfileFields:
		return "profile:fields"
	case MappingSourceIgnore:
		return "ignore"
	case MappingSourceTag:
		return "tag"
	case MappingSourceExact:
		return "exact"
	case MappingSourceLoose:
		return "loose"
	case MappingSourceDefault:
		return "default"
	default:
		return common.UnknownStr
	}
}

// FieldPlan is the resolved assignment of one target field.
type FieldPlan struct {
	Target      *analyze.FieldInfo
	Source      *analyze.FieldInfo // nil for ignores and defaults
	Origin      MappingSource
	Strategy    ConversionStrategy
	Category    primitive.CategoryEnum // set for StrategyPrimitive
	Caster      string                 // set for StrategyTransform
	Default     *string                // written when the source is zero or absent
	Explanation string

	conv         primitive.Func
	defaultValue reflect.Value
}

// String renders "Target <- Source (origin, strategy)".
func (f *FieldPlan) String() string {
	source := "-"
	switch {
	case f.Source != nil:
		source = f.Source.Name
	case f.Default != nil:
		source = fmt.Sprintf("%q", *f.Default)
	}

	return fmt.Sprintf("%s <- %s (%s, %s)", f.Target.Name, source, f.Origin, f.Strategy)
}

// UnmappedField is a target field nothing writes to.
type UnmappedField struct {
	Target      *analyze.FieldInfo
	Suggestions []string
}

// Plan is the resolved copy plan of one (source, target) type pair.
type Plan struct {
	Source      *analyze.StructInfo
	Target      *analyze.StructInfo
	Fields      []FieldPlan
	Unmapped    []UnmappedField
	Diagnostics diagnostic.Diagnostics
}

// Pair names the type pair, e.g. "convert.EmployeeDO->convert.EmployeeVO".
func (p *Plan) Pair() string {
	return pairName(p.Source.ID, p.Target.ID)
}

func pairName(src, dst analyze.TypeID) string {
	return src.Short() + "->" + dst.Short()
}

// Field returns the plan of the named target field.
func (p *Plan) Field(target string) (*FieldPlan, bool) {
	for i := range p.Fields {
		if p.Fields[i].Target.Name == target {
			return &p.Fields[i], true
		}
	}
	return nil, false
}

// String lists one line per planned field.
func (p *Plan) String() string {
	var b strings.Builder
	b.WriteString(p.Pair())
	for i := range p.Fields {
		b.WriteString("\n  " + p.Fields[i].String())
	}
	for _, u := range p.Unmapped {
		b.WriteString("\n  " + u.Target.Name + " <- ? (unmapped)")
	}
	return b.String()
}
