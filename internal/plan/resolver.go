package plan

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"common-tools/internal/analyze"
	"common-tools/internal/caster"
	"common-tools/internal/diagnostic"
	"common-tools/internal/mapping"
	"common-tools/internal/match"
	"common-tools/primitive"
)

var (
	ErrUnresolved = errors.New("copy plan has errors")
	ErrUnmapped   = errors.New("target fields left unmapped")
)

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// Categories enables scalar conversion families.
	Categories primitive.CategoryEnum
	// Loose enables normalized name matching.
	Loose bool
	// Ignore lists target field names that are never written.
	Ignore []string
	// Casters are consulted before any built-in strategy.
	Casters *caster.Registry
	// Profiles pin renames, ignores and defaults per type pair.
	Profiles *mapping.MappingFile
	// StrictMode fails resolution when a target field stays unmapped.
	StrictMode bool
}

// DefaultConfig returns the default resolution configuration: exact names,
// assignable or same-kind convertible types, pointer lifting.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{Categories: primitive.CategoryNone}
}

// Resolver turns type pairs into plans.
type Resolver struct {
	config ResolutionConfig
}

// NewResolver creates a new Resolver.
func NewResolver(config ResolutionConfig) *Resolver {
	return &Resolver{config: config}
}

// pairRules are the effective rules for one type pair.
type pairRules struct {
	profile    *mapping.TypeMapping
	categories primitive.CategoryEnum
	loose      bool
	renames    map[string]string
	defaults   map[string]string
}

func (r *Resolver) rules(src, dst *analyze.StructInfo) pairRules {
	rules := pairRules{
		categories: r.config.Categories,
		loose:      r.config.Loose,
	}

	if profile, ok := r.config.Profiles.Find(src.ID, dst.ID); ok {
		rules.profile = profile
		rules.categories |= profile.CategorySet()
		rules.loose = rules.loose || profile.Loose
		rules.renames = profile.Renames()
		rules.defaults = profile.Defaults()
	}

	return rules
}

// Resolve builds the plan copying values of src into values of dst. Both
// must be struct types or pointers to struct types.
func (r *Resolver) Resolve(src, dst reflect.Type) (*Plan, error) {
	srcInfo, err := analyze.Struct(src)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	dstInfo, err := analyze.Struct(dst)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	p := &Plan{Source: srcInfo, Target: dstInfo}
	rules := r.rules(srcInfo, dstInfo)
	pair := p.Pair()

	sources := make([]analyze.FieldInfo, 0, len(srcInfo.Fields))
	for _, f := range srcInfo.Fields {
		if !f.Skipped() {
			sources = append(sources, f)
		}
	}

	for i := range dstInfo.Fields {
		target := &dstInfo.Fields[i]

		fp, ok := r.resolveField(p, rules, sources, target)
		if !ok {
			suggestions := match.Suggest(target, sources)
			p.Unmapped = append(p.Unmapped, UnmappedField{Target: target, Suggestions: suggestions})
			p.Diagnostics.AddWarning(diagnostic.CodeUnmapped, "no source field", pair, target.Path(dstInfo.ID), suggestions...)
			continue
		}

		if fp != nil {
			p.Fields = append(p.Fields, *fp)
		}
	}

	r.checkUnknownTargets(p, rules)

	if r.config.StrictMode && len(p.Unmapped) > 0 {
		names := make([]string, len(p.Unmapped))
		for i, u := range p.Unmapped {
			names[i] = u.Target.Name
		}
		return p, fmt.Errorf("%s: %w: %v", pair, ErrUnmapped, names)
	}

	if p.Diagnostics.HasErrors() {
		return p, fmt.Errorf("%w: %w", ErrUnresolved, p.Diagnostics.Err())
	}

	return p, nil
}

// resolveField returns the plan of target. A nil plan with true means the
// field was accounted for without being planned (incompatible types).
func (r *Resolver) resolveField(
	p *Plan,
	rules pairRules,
	sources []analyze.FieldInfo,
	target *analyze.FieldInfo,
) (*FieldPlan, bool) {
	pair := p.Pair()
	targetPath := target.Path(p.Target.ID)

	var defaultText *string
	if text, ok := rules.defaults[target.Name]; ok {
		defaultText = &text
	}

	lookup := func(name string) *analyze.FieldInfo {
		for i := range sources {
			if sources[i].Name == name {
				return &sources[i]
			}
		}
		return nil
	}

	var (
		source *analyze.FieldInfo
		origin MappingSource
	)

	switch name, pinned := rules.renames[target.Name]; {
	case pinned:
		origin = MappingSourceProfileFields
		if _, ok := rules.profile.OneToOne[name]; ok {
			origin = MappingSourceProfile121
		}
		if source = lookup(name); source == nil {
			p.Diagnostics.AddError(diagnostic.CodeUnknownSource,
				fmt.Sprintf("profile names unknown source field %q", name), pair, targetPath)
			return nil, true
		}

	case target.Skipped() || slices.Contains(r.config.Ignore, target.Name) ||
		(rules.profile != nil && rules.profile.Ignores(target.Name)):
		p.Diagnostics.AddInfo(diagnostic.CodeIgnored, "field ignored", pair, targetPath)
		return &FieldPlan{Target: target, Origin: MappingSourceIgnore, Strategy: StrategyIgnore, Explanation: "ignored"}, true

	default:
		if name, tagged := target.SourceName(); tagged {
			origin = MappingSourceTag
			if source = lookup(name); source == nil {
				p.Diagnostics.AddError(diagnostic.CodeUnknownSource,
					fmt.Sprintf("tag names unknown source field %q", name), pair, targetPath)
				return nil, true
			}
			break
		}

		if source = lookup(target.Name); source != nil {
			origin = MappingSourceExact
			break
		}

		if rules.loose {
			source = r.looseMatch(p, sources, target)
			origin = MappingSourceLoose
		}
	}

	if source == nil {
		if defaultText == nil {
			return nil, false
		}
		return r.defaultPlan(p, target, *defaultText)
	}

	fp := &FieldPlan{Target: target, Source: source, Origin: origin}

	strategy, ok := r.selectStrategy(source.Type, target.Type, rules.categories)
	if !ok {
		compat := match.ScorePointerCompatibility(source.Type, target.Type)
		p.Diagnostics.AddWarning(diagnostic.CodeIncompatible,
			fmt.Sprintf("cannot copy %s into %s: %s%s", source.Type, target.Type, compat.Reason, categoryHint(source.Type, target.Type)),
			pair, targetPath)
		return nil, true
	}

	if strategy.strategy == StrategyTransform {
		switch match.ScoreTypeCompatibility(source.Type, target.Type).Compatibility {
		case match.TypeIdentical, match.TypeAssignable:
			p.Diagnostics.AddInfo(diagnostic.CodeCasterOverride,
				fmt.Sprintf("caster %s replaces direct assignment", strategy.caster), pair, targetPath)
		}
	}

	if !analyze.CanAllocate(p.Target.Type, target.Index) {
		p.Diagnostics.AddWarning(diagnostic.CodeUnsettable,
			"promoted through an unexported embedded pointer, written only when that pointer is set", pair, targetPath)
	}

	fp.Strategy = strategy.strategy
	fp.Category = strategy.category
	fp.Caster = strategy.caster
	fp.Explanation = strategy.explanation
	fp.conv = strategy.conv

	if strategy.category == primitive.CategoryUnsafeNumber {
		p.Diagnostics.AddWarning(diagnostic.CodeLossy,
			fmt.Sprintf("%s to %s may lose precision", source.Type, target.Type), pair, targetPath)
	}

	if defaultText != nil {
		value, err := parseDefault(target.Type, *defaultText)
		if err != nil {
			p.Diagnostics.AddError(diagnostic.CodeIncompatible, err.Error(), pair, targetPath)
			return nil, true
		}
		fp.Default = defaultText
		fp.defaultValue = value
	}

	return fp, true
}

func (r *Resolver) looseMatch(p *Plan, sources []analyze.FieldInfo, target *analyze.FieldInfo) *analyze.FieldInfo {
	want := match.NormalizeIdent(target.Name)

	var found []*analyze.FieldInfo
	for i := range sources {
		if match.NormalizeIdent(sources[i].Name) == want {
			found = append(found, &sources[i])
		}
	}

	if len(found) > 1 {
		names := make([]string, len(found))
		for i, f := range found {
			names[i] = f.Name
		}
		p.Diagnostics.AddWarning(diagnostic.CodeUnmapped, "ambiguous loose match", p.Pair(), target.Path(p.Target.ID), names...)
		return nil
	}

	if len(found) == 1 {
		return found[0]
	}

	return nil
}

func (r *Resolver) defaultPlan(p *Plan, target *analyze.FieldInfo, text string) (*FieldPlan, bool) {
	value, err := parseDefault(target.Type, text)
	if err != nil {
		p.Diagnostics.AddError(diagnostic.CodeIncompatible, err.Error(), p.Pair(), target.Path(p.Target.ID))
		return nil, true
	}

	return &FieldPlan{
		Target:       target,
		Origin:       MappingSourceDefault,
		Strategy:     StrategyDefault,
		Default:      &text,
		Explanation:  "profile default",
		defaultValue: value,
	}, true
}

// parseDefault converts a textual default into a value of t, through any
// conversion available from string.
func parseDefault(t reflect.Type, text string) (reflect.Value, error) {
	value := reflect.New(t).Elem()

	strategy, ok := newSelector(nil).sel(reflect.TypeFor[string](), t, primitive.CategoryAll)
	if !ok {
		return reflect.Value{}, fmt.Errorf("default %q cannot be written to %s", text, t)
	}

	if err := strategy.conv(reflect.ValueOf(text), value); err != nil {
		return reflect.Value{}, fmt.Errorf("default %q for %s: %w", text, t, err)
	}

	return value, nil
}

func (r *Resolver) checkUnknownTargets(p *Plan, rules pairRules) {
	known := func(name string) bool {
		_, ok := p.Target.Field(name)
		return ok
	}

	names := slices.Clone(r.config.Ignore)
	if rules.profile != nil {
		names = append(names, rules.profile.Ignore...)
		for target := range rules.renames {
			names = append(names, target)
		}
		for target := range rules.defaults {
			names = append(names, target)
		}
	}

	slices.Sort(names)
	for _, name := range slices.Compact(names) {
		if !known(name) {
			p.Diagnostics.AddWarning(diagnostic.CodeUnknownTarget,
				fmt.Sprintf("unknown target field %q", name), p.Pair(), "")
		}
	}
}

// categoryHint names the category that would connect a number and a string.
func categoryHint(src, dst reflect.Type) string {
	src, dst = indirect(src), indirect(dst)
	if (match.IsNumericType(src) && match.IsStringType(dst)) ||
		(match.IsStringType(src) && match.IsNumericType(dst)) {
		return " (enable the " + primitive.CategoryTextNumber.String() + " category)"
	}
	return ""
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
