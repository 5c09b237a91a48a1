package ir

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/schema"
)

// Selection is the closed sum type spec.md §3 defines: ScalarField,
// LinkedField, InlineFragment, FragmentSpread, or Condition. Adding a new
// kind is a deliberate, coordinated change touching every transform
// (spec.md §9 "Variant dispatch") — callers switch on Kind(), never a type
// hierarchy.
type Selection interface {
	// isSelection seals the interface to this package's five variants.
	isSelection()
	// Kind reports which of the five variants this is, for switch dispatch.
	Kind() SelectionKind
}

// SelectionKind enumerates the five Selection variants. Its numeric value
// also doubles as the kind_rank used by sort_selections' total order
// (spec.md §4.6, §8 invariant 3).
type SelectionKind int

const (
	KindScalarField SelectionKind = iota
	KindLinkedField
	KindInlineFragment
	KindFragmentSpread
	KindCondition
)

// ScalarField is a leaf field with no selections.
type ScalarField struct {
	Alias      intern.ID // zero if unaliased
	Name       intern.ID
	Arguments  []Argument
	Directives []Directive
	Type       *schema.TypeRef
	Loc        Location
}

func (ScalarField) isSelection()          {}
func (ScalarField) Kind() SelectionKind   { return KindScalarField }
func (f ScalarField) ResponseKey() intern.ID {
	if f.Alias != 0 {
		return f.Alias
	}
	return f.Name
}

// LinkedField is a composite-typed field with its own selection set.
// Invariant (spec.md §3): after building, every LinkedField has an
// unwrapped composite type and a non-empty selection set — transforms may
// later empty it, which signals the field's own deletion to its parent.
type LinkedField struct {
	Alias      intern.ID
	Name       intern.ID
	Arguments  []Argument
	Directives []Directive
	Type       *schema.TypeRef
	Selections []Selection
	Loc        Location
}

func (LinkedField) isSelection()        {}
func (LinkedField) Kind() SelectionKind { return KindLinkedField }
func (f LinkedField) ResponseKey() intern.ID {
	if f.Alias != 0 {
		return f.Alias
	}
	return f.Name
}

// InlineFragment is an anonymous, optionally type-conditioned selection
// set: `... on Type @dir { selections }` or bare `... { selections }`.
type InlineFragment struct {
	TypeCondition intern.ID // zero if absent (no narrowing)
	Directives    []Directive
	Selections    []Selection
	Loc           Location
}

func (InlineFragment) isSelection()        {}
func (InlineFragment) Kind() SelectionKind { return KindInlineFragment }
func (f InlineFragment) HasTypeCondition() bool { return f.TypeCondition != 0 }

// FragmentSpread references a named FragmentDefinition, optionally
// supplying arguments consumed by apply_fragment_arguments.
type FragmentSpread struct {
	FragmentName intern.ID
	Arguments    []Argument
	Directives   []Directive
	Loc          Location
}

func (FragmentSpread) isSelection()        {}
func (FragmentSpread) Kind() SelectionKind { return KindFragmentSpread }

// ConditionKind discriminates @include/@skip semantics.
type ConditionKind int

const (
	If ConditionKind = iota
	Unless
)

// ConditionValue is either a variable reference or a literal boolean,
// spec.md §3 "value: Variable | ConstantBool".
type ConditionValue struct {
	IsVariable bool
	Variable   intern.ID
	Literal    bool
}

// Condition is an @include/@skip wrapper around a selection list.
type Condition struct {
	ConditionKind ConditionKind
	Value         ConditionValue
	Selections    []Selection
	Loc           Location
}

func (Condition) isSelection()        {}
func (Condition) Kind() SelectionKind { return KindCondition }

// Holds reports, for a literal condition, whether its selections should be
// kept (true) or dropped (false). Only meaningful when Value.IsVariable is
// false; skip_unreachable_nodes is the only caller that should use this.
func (c Condition) Holds() bool {
	lit := c.Value.Literal
	if c.ConditionKind == Unless {
		return !lit
	}
	return lit
}

// VarDef is a variable declaration on an operation or fragment.
type VarDef struct {
	Name         WithLocation[intern.ID]
	Type         *schema.TypeRef
	DefaultValue *Value // nil if none
}
