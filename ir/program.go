package ir

import (
	"sort"
	"sync"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/schema"
)

// Program is a mapping by name from operation-name to OperationDefinition
// and fragment-name to FragmentDefinition, sharing a schema handle. Names
// are unique per Program (spec.md §3).
type Program struct {
	Schema     *schema.Schema
	Operations map[intern.ID]*OperationDefinition
	Fragments  map[intern.ID]*FragmentDefinition

	mu sync.Mutex // guards concurrent Put during parallel IR construction
}

// NewProgram creates an empty Program sharing the given schema.
func NewProgram(s *schema.Schema) *Program {
	return &Program{
		Schema:     s,
		Operations: make(map[intern.ID]*OperationDefinition),
		Fragments:  make(map[intern.ID]*FragmentDefinition),
	}
}

// PutOperation registers an operation by name. Safe for concurrent use by
// parallel builder workers (spec.md §5: "operations/fragments of a Program
// may be processed in parallel").
func (p *Program) PutOperation(op *OperationDefinition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Operations[op.Name.Value] = op
}

// PutFragment registers a fragment by name.
func (p *Program) PutFragment(f *FragmentDefinition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Fragments[f.Name.Value] = f
}

// Operation looks up an operation by name.
func (p *Program) Operation(name intern.ID) (*OperationDefinition, bool) {
	op, ok := p.Operations[name]
	return op, ok
}

// Fragment looks up a fragment by name.
func (p *Program) Fragment(name intern.ID) (*FragmentDefinition, bool) {
	f, ok := p.Fragments[name]
	return f, ok
}

// Clone returns a new Program with copied (not deep-cloned) maps, so a
// transform pass can rebuild it without mutating the input Program — every
// transform is a pure function of its input (spec.md §5).
func (p *Program) Clone() *Program {
	out := NewProgram(p.Schema)
	for k, v := range p.Operations {
		out.Operations[k] = v
	}
	for k, v := range p.Fragments {
		out.Fragments[k] = v
	}
	return out
}

// OperationNames returns operation names in stable (interned-ID) order.
func (p *Program) OperationNames() []intern.ID {
	return sortedKeys(p.Operations)
}

// FragmentNames returns fragment names in stable (interned-ID) order.
func (p *Program) FragmentNames() []intern.ID {
	return sortedKeys(p.Fragments)
}

func sortedKeys[V any](m map[intern.ID]V) []intern.ID {
	out := make([]intern.ID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Programs is the five-tuple bundle the pipeline orchestrator produces for
// one build: source, reader, normalization, operation text, and typegen
// (spec.md §2, §3, Glossary). Each Program is independently shared but
// references the same schema.
type Programs struct {
	Source         *Program
	Reader         *Program
	Normalization  *Program
	OperationText  *Program
	Typegen        *Program
}
