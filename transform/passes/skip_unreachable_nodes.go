package passes

import (
	"github.com/viant/queryc/ir"
)

// SkipUnreachableNodes eliminates any `@include`/`@skip` whose argument is
// a literal boolean rather than a variable: a literal-false include (or
// literal-true skip) can never fetch, so its selections are dropped
// entirely; a literal-true include (or literal-false skip) always fetches,
// so its selections splice directly into the parent and the wrapper
// Condition itself disappears (spec.md §4.6 "skip_unreachable_nodes" —
// "removes resulting empty conditions"). Like `flatten`, this is a 1-to-N
// splice the generic `Transformed[T]` per-node contract can't express, so
// it is a direct recursion over `[]ir.Selection` rather than a
// `transform.Run` visitor.
func SkipUnreachableNodes(program *ir.Program) *ir.Program {
	out := ir.NewProgram(program.Schema)
	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		clone := *op
		clone.Selections = pruneUnreachable(op.Selections)
		out.PutOperation(&clone)
	}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		clone := *f
		clone.Selections = pruneUnreachable(f.Selections)
		out.PutFragment(&clone)
	}
	return out
}

func pruneUnreachable(sels []ir.Selection) []ir.Selection {
	out := make([]ir.Selection, 0, len(sels))
	for _, sel := range sels {
		switch v := sel.(type) {
		case ir.Condition:
			if v.Value.IsVariable {
				v.Selections = pruneUnreachable(v.Selections)
				if len(v.Selections) > 0 {
					out = append(out, v)
				}
				continue
			}
			if v.Holds() {
				out = append(out, pruneUnreachable(v.Selections)...)
			}
			// literal-false: drop entirely.
		case ir.LinkedField:
			v.Selections = pruneUnreachable(v.Selections)
			if len(v.Selections) > 0 {
				out = append(out, v)
			}
		case ir.InlineFragment:
			v.Selections = pruneUnreachable(v.Selections)
			if len(v.Selections) > 0 {
				out = append(out, v)
			}
		default:
			out = append(out, sel)
		}
	}
	return out
}
