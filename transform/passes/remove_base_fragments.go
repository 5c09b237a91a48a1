package passes

import "github.com/viant/queryc/ir"

// RemoveBaseFragments drops every fragment marked IsBase from the output
// Program's Fragments map (spec.md §4.6 "remove_base_fragments" / §2.10
// "Base project"): a base-project fragment's own artifact is owned by the
// base build, so a dependent project's artifact set must not re-emit it.
// Its selections already live inline at every spread site by this point in
// the Normalization pipeline (inline_fragments/flatten run earlier), so
// dropping the definition here loses no reachable data — only the
// redundant standalone artifact a dependent build would otherwise produce.
func RemoveBaseFragments(program *ir.Program) *ir.Program {
	out := ir.NewProgram(program.Schema)
	for _, name := range program.OperationNames() {
		out.PutOperation(program.Operations[name])
	}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		if f.IsBase {
			continue
		}
		out.PutFragment(f)
	}
	return out
}
