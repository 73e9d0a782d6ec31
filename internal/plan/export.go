package plan

import "github.com/davecgh/go-spew/spew"

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// FieldSummary is the printable form of a FieldPlan.
type FieldSummary struct {
	Target      string
	Source      string
	Origin      string
	Strategy    string
	Explanation string
}

// Summary describes every planned and unmapped field.
func (p *Plan) Summary() []FieldSummary {
	out := make([]FieldSummary, 0, len(p.Fields)+len(p.Unmapped))

	for i := range p.Fields {
		f := &p.Fields[i]
		source := ""
		if f.Source != nil {
			source = f.Source.Name
		}

		out = append(out, FieldSummary{
			Target:      f.Target.Name,
			Source:      source,
			Origin:      f.Origin.String(),
			Strategy:    f.Strategy.String(),
			Explanation: f.Explanation,
		})
	}

	for _, u := range p.Unmapped {
		out = append(out, FieldSummary{Target: u.Target.Name, Strategy: "unmapped"})
	}

	return out
}

// Dump renders the plan summary with spew, for debugging.
func (p *Plan) Dump() string {
	return dumpConfig.Sdump(p.Pair(), p.Summary())
}
