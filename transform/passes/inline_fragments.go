package passes

import (
	"github.com/viant/queryc/ir"
)

// InlineFragments replaces every FragmentSpread in the normalization
// pipeline with an InlineFragment carrying a copy of the target
// fragment's body (spec.md §4.6 "inline_fragments"). Fragment-level
// directives (other than the already-consumed `@arguments`) are carried
// onto the synthesized InlineFragment so downstream passes (match/module,
// required_directive) still see them.
func InlineFragments(program *ir.Program) *ir.Program {
	out := ir.NewProgram(program.Schema)
	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		clone := *op
		clone.Selections = inlineSelections(program, op.Selections)
		out.PutOperation(&clone)
	}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		clone := *f
		clone.Selections = inlineSelections(program, f.Selections)
		out.PutFragment(&clone)
	}
	return out
}

func inlineSelections(program *ir.Program, sels []ir.Selection) []ir.Selection {
	out := make([]ir.Selection, 0, len(sels))
	for _, sel := range sels {
		switch v := sel.(type) {
		case ir.FragmentSpread:
			target, ok := program.Fragment(v.FragmentName)
			if !ok {
				// Unresolvable spreads are a builder-stage concern; at this
				// point in the pipeline every spread should already be
				// valid, so leave it untouched rather than guess.
				out = append(out, v)
				continue
			}
			body := inlineSelections(program, target.Selections)
			out = append(out, ir.InlineFragment{
				TypeCondition: target.TypeCondition,
				Directives:    v.Directives,
				Selections:    body,
				Loc:           v.Loc,
			})
		case ir.LinkedField:
			v.Selections = inlineSelections(program, v.Selections)
			out = append(out, v)
		case ir.InlineFragment:
			v.Selections = inlineSelections(program, v.Selections)
			out = append(out, v)
		case ir.Condition:
			v.Selections = inlineSelections(program, v.Selections)
			out = append(out, v)
		default:
			out = append(out, sel)
		}
	}
	return out
}
