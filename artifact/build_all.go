package artifact

import (
	"fmt"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/persist"
)

// BuildAll assembles one Artifact per operation in programs.OperationText
// plus one Artifact per fragment in programs.Reader (spec.md §4.10 step
// 7: "For each normalized operation, look up its reader counterpart by
// name, and emit an Artifact"). An operation present in OperationText
// but absent from Reader — which does not happen for a validly-built
// Programs set, spec.md §8 invariant 6 — is reported as an error rather
// than silently skipped, since a missing reader counterpart means the
// pipelines diverged on which definitions survived. Fragments are taken
// from Reader alone, so no such cross-check applies to them.
func BuildAll(programs *ir.Programs, persister persist.Persister, persistParams map[string]string) ([]*Artifact, error) {
	var out []*Artifact

	for _, name := range programs.OperationText.OperationNames() {
		op := programs.OperationText.Operations[name]
		if _, ok := programs.Reader.Operation(name); !ok {
			return nil, fmt.Errorf("operation %q has no reader counterpart", intern.Lookup(name))
		}
		a, err := BuildOperation(op, persister, persistParams)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	for _, name := range programs.Reader.FragmentNames() {
		f := programs.Reader.Fragments[name]
		if f.IsBase {
			continue // base fragments are owned and emitted by the base project.
		}
		a, err := BuildFragment(f)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, nil
}
