package ir

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/schema"
)

// OperationKind is Query, Mutation, or Subscription; re-exported from
// schema so callers only import one enum.
type OperationKind = schema.OperationKind

const (
	Query        = schema.Query
	Mutation     = schema.Mutation
	Subscription = schema.Subscription
)

// OperationDefinition is a named, top-level executable request (spec.md
// §3, Glossary).
type OperationDefinition struct {
	OperationKind       OperationKind
	Name                WithLocation[intern.ID]
	Type                intern.ID // root type name this operation selects against
	VariableDefinitions []VarDef
	Directives          []Directive
	Selections          []Selection
}

// Clone mirrors FragmentDefinition.Clone.
func (o *OperationDefinition) Clone() *OperationDefinition {
	clone := *o
	clone.Selections = append([]Selection(nil), o.Selections...)
	clone.VariableDefinitions = append([]VarDef(nil), o.VariableDefinitions...)
	clone.Directives = append([]Directive(nil), o.Directives...)
	return &clone
}
