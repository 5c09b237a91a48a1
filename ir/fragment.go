package ir

import "github.com/viant/queryc/intern"

// FragmentDefinition is a named, reusable selection over a specific type
// condition (spec.md §3).
//
// Ownership (spec.md §3): FragmentDefinition, like every other IR node, is
// held by shared, immutable references. Transforms produce new versions by
// shallow-cloning and replacing fields, never by mutating in place.
type FragmentDefinition struct {
	Name                WithLocation[intern.ID]
	TypeCondition       intern.ID
	VariableDefinitions []VarDef
	// UsedGlobalVariables lists variables referenced by this fragment that
	// are not locally declared — they must be supplied by every operation
	// that (transitively) spreads this fragment. Populated by the builder's
	// second pass once all spreads are resolved.
	UsedGlobalVariables []VarDef
	Directives          []Directive
	Selections          []Selection

	// IsBase marks a fragment that originated in a base project (spec.md
	// §2.10 "Base project"): its selections may be spread by a dependent
	// project but its own artifact is owned by the base, so
	// remove_base_fragments omits it from final output while inlining its
	// selections at spread sites.
	IsBase bool
}

// Clone returns a shallow copy suitable for a transform's Replace result:
// top-level fields are copied, Selections is a fresh slice header sharing
// the same element values (transforms replace individual elements, not the
// backing array, preserving structural sharing for untouched siblings).
func (f *FragmentDefinition) Clone() *FragmentDefinition {
	clone := *f
	clone.Selections = append([]Selection(nil), f.Selections...)
	clone.VariableDefinitions = append([]VarDef(nil), f.VariableDefinitions...)
	clone.UsedGlobalVariables = append([]VarDef(nil), f.UsedGlobalVariables...)
	clone.Directives = append([]Directive(nil), f.Directives...)
	return &clone
}
