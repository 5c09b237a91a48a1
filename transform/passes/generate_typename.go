package passes

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
)

var typenameFieldName = intern.Intern("__typename")

// GenerateTypename inserts `__typename` into every composite selection
// scope unless the parent type is a concrete Object — a concrete object's
// type name is already statically known, so fetching it would be
// redundant (spec.md §4.6 "generate_typename"). forceAll disables that
// optimization and inserts `__typename` even on a concrete Object scope;
// the Reader pipeline sets it (spec.md §4.5 "do not skip typename"),
// since reader records are consumed by clients that branch on
// `__typename` uniformly regardless of static type knowledge.
func GenerateTypename(program *ir.Program, forceAll bool) *ir.Program {
	out := ir.NewProgram(program.Schema)
	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		clone := *op
		clone.Selections = withTypename(program.Schema, op.Type, op.Selections, forceAll)
		out.PutOperation(&clone)
	}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		clone := *f
		clone.Selections = withTypename(program.Schema, f.TypeCondition, f.Selections, forceAll)
		out.PutFragment(&clone)
	}
	return out
}

func withTypename(s *schema.Schema, scopeType intern.ID, sels []ir.Selection, forceAll bool) []ir.Selection {
	recursed := recurseTypename(s, sels, forceAll)
	if !needsTypename(s, scopeType, forceAll) || hasTypename(recursed) {
		return recursed
	}
	return append([]ir.Selection{ir.ScalarField{
		Name: typenameFieldName,
		Type: schema.NewNonNull(schema.NewNamed(intern.Intern("String"))),
	}}, recursed...)
}

func recurseTypename(s *schema.Schema, sels []ir.Selection, forceAll bool) []ir.Selection {
	out := make([]ir.Selection, 0, len(sels))
	for _, sel := range sels {
		switch v := sel.(type) {
		case ir.LinkedField:
			v.Selections = withTypename(s, v.Type.InnerNamed(), v.Selections, forceAll)
			out = append(out, v)
		case ir.InlineFragment:
			scope := v.TypeCondition
			v.Selections = recurseTypename(s, v.Selections, forceAll)
			if scope != 0 && needsTypename(s, scope, forceAll) && !hasTypename(v.Selections) {
				v.Selections = append([]ir.Selection{ir.ScalarField{
					Name: typenameFieldName,
					Type: schema.NewNonNull(schema.NewNamed(intern.Intern("String"))),
				}}, v.Selections...)
			}
			out = append(out, v)
		case ir.Condition:
			v.Selections = recurseTypename(s, v.Selections, forceAll)
			out = append(out, v)
		default:
			out = append(out, sel)
		}
	}
	return out
}

func needsTypename(s *schema.Schema, scopeType intern.ID, forceAll bool) bool {
	t, ok := s.TypeByName(scopeType)
	if !ok {
		return false
	}
	if forceAll {
		return true
	}
	return t.Kind != schema.Object
}

func hasTypename(sels []ir.Selection) bool {
	for _, s := range sels {
		if sf, ok := s.(ir.ScalarField); ok && sf.Name == typenameFieldName {
			return true
		}
	}
	return false
}
