package dependency

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
)

// ReachableIR implements get_reachable_ir (spec.md §4.9): from
// changedNames, it traverses the Program's fragment-spread edges in
// reverse — from a fragment to every definition that spreads it — to
// find every definition whose emitted artifact could be affected by the
// change, then drops anything in baseNames, since a base definition's own
// artifact is never emitted (spec.md §4.10 step 5 calls this set the
// input to restricting IR on an incremental build).
func ReachableIR(program *ir.Program, baseNames, changedNames map[intern.ID]bool) map[intern.ID]bool {
	reverse := buildReverseSpreadEdges(program)

	visited := make(map[intern.ID]bool, len(changedNames))
	queue := make([]intern.ID, 0, len(changedNames))
	for name := range changedNames {
		visited[name] = true
		queue = append(queue, name)
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, dependent := range reverse[name] {
			if !visited[dependent] {
				visited[dependent] = true
				queue = append(queue, dependent)
			}
		}
	}

	out := make(map[intern.ID]bool, len(visited))
	for name := range visited {
		if !baseNames[name] {
			out[name] = true
		}
	}
	return out
}

// buildReverseSpreadEdges maps a fragment's name to every operation or
// fragment in the Program that spreads it directly.
func buildReverseSpreadEdges(program *ir.Program) map[intern.ID][]intern.ID {
	reverse := map[intern.ID][]intern.ID{}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		for _, target := range collectIRSpreadNames(f.Selections) {
			reverse[target] = append(reverse[target], name)
		}
	}
	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		for _, target := range collectIRSpreadNames(op.Selections) {
			reverse[target] = append(reverse[target], name)
		}
	}
	return reverse
}

// collectIRSpreadNames walks a built selection tree, recursing into
// LinkedField, InlineFragment, and Condition children, and returns every
// fragment name spread anywhere within it.
func collectIRSpreadNames(sels []ir.Selection) []intern.ID {
	var names []intern.ID
	for _, sel := range sels {
		switch v := sel.(type) {
		case ir.FragmentSpread:
			names = append(names, v.FragmentName)
		case ir.LinkedField:
			names = append(names, collectIRSpreadNames(v.Selections)...)
		case ir.InlineFragment:
			names = append(names, collectIRSpreadNames(v.Selections)...)
		case ir.Condition:
			names = append(names, collectIRSpreadNames(v.Selections)...)
		}
	}
	return names
}
