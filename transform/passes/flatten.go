// Package passes holds the ~20 individual transforms spec.md §4.6
// describes, each a function from one Program to another. Passes that
// only rewrite or delete a single node at a time are built on
// transform.Run; passes like flatten that splice a node's children into
// its parent's selection list operate directly on []ir.Selection, since
// the generic one-node-in-one-node-out Transformed contract can't express
// a 1-to-N splice.
package passes

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
)

// Flatten merges inline fragments into their parent selection list when
// the type condition is the parent's own type or (if shouldFlattenAbstract)
// is trivially implied, and recursively flattens nested conditions
// in-place (spec.md §4.6 "flatten"). Applying it twice is a no-op
// (spec.md §8 "Round-trip / idempotence").
func Flatten(program *ir.Program, shouldFlattenAbstract bool) *ir.Program {
	out := ir.NewProgram(program.Schema)
	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		rootType := op.Type
		selections := flattenSelections(program.Schema, rootType, op.Selections, shouldFlattenAbstract)
		clone := *op
		clone.Selections = selections
		out.PutOperation(&clone)
	}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		selections := flattenSelections(program.Schema, f.TypeCondition, f.Selections, shouldFlattenAbstract)
		clone := *f
		clone.Selections = selections
		out.PutFragment(&clone)
	}
	return out
}

func flattenSelections(s *schema.Schema, parentType intern.ID, sels []ir.Selection, shouldFlattenAbstract bool) []ir.Selection {
	out := make([]ir.Selection, 0, len(sels))
	for _, sel := range sels {
		switch v := sel.(type) {
		case ir.LinkedField:
			innerType := v.Type.InnerNamed()
			v.Selections = flattenSelections(s, innerType, v.Selections, shouldFlattenAbstract)
			out = append(out, v)
		case ir.InlineFragment:
			flattenedChildren := flattenSelections(s, effectiveScope(v, parentType), v.Selections, shouldFlattenAbstract)
			if shouldInline(s, v, parentType, shouldFlattenAbstract) {
				out = append(out, flattenedChildren...)
				continue
			}
			v.Selections = flattenedChildren
			out = append(out, v)
		case ir.Condition:
			v.Selections = flattenSelections(s, parentType, v.Selections, shouldFlattenAbstract)
			out = append(out, v)
		default:
			out = append(out, sel)
		}
	}
	return out
}

func effectiveScope(f ir.InlineFragment, parentType intern.ID) intern.ID {
	if f.TypeCondition != 0 {
		return f.TypeCondition
	}
	return parentType
}

// shouldInline reports whether an inline fragment contributes nothing a
// selection-set boundary needs: no user or internal directive forces it
// to stay a distinct scope, and its type condition is either absent or
// matches the parent's own type (or, with shouldFlattenAbstract, the
// parent is already known to satisfy it).
func shouldInline(s *schema.Schema, f ir.InlineFragment, parentType intern.ID, shouldFlattenAbstract bool) bool {
	if len(f.Directives) > 0 {
		return false
	}
	if f.TypeCondition == 0 || f.TypeCondition == parentType {
		return true
	}
	if shouldFlattenAbstract {
		return s.IsSubtype(f.TypeCondition, parentType) || s.IsSubtype(parentType, f.TypeCondition)
	}
	return false
}
