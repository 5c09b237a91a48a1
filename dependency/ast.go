// Package dependency implements the two reachability entry points spec.md
// §4.9 names: ReachableAST, which follows fragment spreads forward through
// a raw syntax AST to compute a project's closed dependency set before IR
// is even built, and ReachableIR, which follows them backward through a
// built Program to compute which definitions an incremental change could
// affect.
package dependency

import "github.com/viant/queryc/syntaxast"

// astIndex maps a definition name to its node, built by walking a
// Document slice in order; a later document overrides an earlier one
// with the same name, matching how project sources shadow base sources.
type astIndex map[string]syntaxast.ExecutableDefinition

func indexDefinitions(defs []syntaxast.ExecutableDefinition) astIndex {
	idx := make(astIndex, len(defs))
	for _, d := range defs {
		idx[definitionName(d)] = d
	}
	return idx
}

func definitionName(d syntaxast.ExecutableDefinition) string {
	switch v := d.(type) {
	case *syntaxast.OperationDefinition:
		return v.Name
	case *syntaxast.FragmentDefinition:
		return v.Name
	default:
		return ""
	}
}

func definitionSelections(d syntaxast.ExecutableDefinition) []syntaxast.Selection {
	switch v := d.(type) {
	case *syntaxast.OperationDefinition:
		return v.SelectionSet
	case *syntaxast.FragmentDefinition:
		return v.SelectionSet
	default:
		return nil
	}
}

// ReachableAST implements get_reachable_ast (spec.md §4.9): starting from
// projectASTs' own definition names, it follows fragment spreads through
// the union of projectASTs ∪ baseASTs and returns every definition in the
// closure, plus the subset of names whose definition actually came from
// baseASTs (so later stages — remove_base_fragments, artifact emission —
// know which reachable fragments are base-only and must never be emitted
// on their own).
//
// Invariant (spec.md §8.5): the returned closure is closed under
// fragment-spread — every fragment any reachable definition spreads is
// itself present in the closure.
func ReachableAST(projectASTs, baseASTs []syntaxast.ExecutableDefinition) (closure map[string]syntaxast.ExecutableDefinition, baseNames map[string]bool) {
	projectIdx := indexDefinitions(projectASTs)
	baseIdx := indexDefinitions(baseASTs)

	merged := make(astIndex, len(projectIdx)+len(baseIdx))
	for name, d := range baseIdx {
		merged[name] = d
	}
	for name, d := range projectIdx {
		merged[name] = d // project shadows base on name collision
	}

	visited := make(map[string]syntaxast.ExecutableDefinition)
	var queue []string
	for name := range projectIdx {
		queue = append(queue, name)
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, ok := visited[name]; ok {
			continue
		}
		def, ok := merged[name]
		if !ok {
			continue // dangling spread: reported as a validation error elsewhere
		}
		visited[name] = def
		for _, spread := range collectASTSpreadNames(definitionSelections(def)) {
			if _, seen := visited[spread]; !seen {
				queue = append(queue, spread)
			}
		}
	}

	baseNames = make(map[string]bool)
	for name := range visited {
		if _, fromBase := baseIdx[name]; fromBase {
			if _, fromProject := projectIdx[name]; !fromProject {
				baseNames[name] = true
			}
		}
	}
	return visited, baseNames
}

// collectASTSpreadNames walks a syntax selection set, recursing into
// fields and inline fragments, and returns every fragment name spread
// anywhere within it.
func collectASTSpreadNames(sels []syntaxast.Selection) []string {
	var names []string
	for _, sel := range sels {
		switch v := sel.(type) {
		case *syntaxast.FragmentSpread:
			names = append(names, v.Name)
		case *syntaxast.Field:
			names = append(names, collectASTSpreadNames(v.SelectionSet)...)
		case *syntaxast.InlineFragment:
			names = append(names, collectASTSpreadNames(v.SelectionSet)...)
		}
	}
	return names
}
