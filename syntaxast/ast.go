// Package syntaxast defines the opaque syntax-level AST the IR builder
// consumes: a sum ExecutableDefinition = Operation | Fragment, with every
// node carrying a byte-offset Span so the builder can attribute precise
// Locations. The concrete query-language grammar is deliberately a thin,
// swappable adapter here — spec.md §1 places "the query-language
// syntactic parser" out of scope for the core; this package supplies a
// conforming-enough parser to drive the builder and its tests.
package syntaxast

// Span is a byte-offset range within a single source text.
type Span struct {
	Start int
	End   int
}

// Document is the result of parsing one source text: an ordered list of
// top-level executable definitions.
type Document struct {
	Definitions []ExecutableDefinition
}

// ExecutableDefinition is the closed sum spec.md §2 names: Operation |
// Fragment.
type ExecutableDefinition interface {
	isExecutableDefinition()
	DefSpan() Span
}

// OperationDefinition is `query|mutation|subscription Name(vars) { sel }`.
type OperationDefinition struct {
	OperationKind       string // "query" | "mutation" | "subscription"
	Name                string
	NameSpan            Span
	VariableDefinitions []VariableDefinition
	Directives          []Directive
	SelectionSet        []Selection
	Span                Span
}

func (*OperationDefinition) isExecutableDefinition() {}
func (d *OperationDefinition) DefSpan() Span          { return d.Span }

// FragmentDefinition is `fragment Name on Type { sel }`.
type FragmentDefinition struct {
	Name          string
	NameSpan      Span
	TypeCondition string
	TypeSpan      Span
	Directives    []Directive
	SelectionSet  []Selection
	Span          Span
}

func (*FragmentDefinition) isExecutableDefinition() {}
func (d *FragmentDefinition) DefSpan() Span          { return d.Span }

// VariableDefinition is `$name: Type = default` in an operation's
// parameter list.
type VariableDefinition struct {
	Name         string
	NameSpan     Span
	Type         TypeNode
	DefaultValue *Value
}

// TypeNode is the syntactic form of a type reference: Named | List(T) |
// NonNull(T).
type TypeNode struct {
	Kind     TypeNodeKind
	Name     string // set when Kind == TypeNamed
	Of       *TypeNode
	Span     Span
}

type TypeNodeKind int

const (
	TypeNamed TypeNodeKind = iota
	TypeList
	TypeNonNull
)

// Selection is the closed sum: Field | FragmentSpread | InlineFragment.
type Selection interface {
	isSelection()
	SelSpan() Span
}

// Field covers both scalar and linked fields; the builder tells them
// apart via the schema, not the syntax.
type Field struct {
	Alias        string // "" if none
	Name         string
	NameSpan     Span
	Arguments    []Argument
	Directives   []Directive
	SelectionSet []Selection // nil for leaf fields
	Span         Span
}

func (*Field) isSelection()   {}
func (f *Field) SelSpan() Span { return f.Span }

// FragmentSpread is `...Name @directives`. Arguments passed via Relay's
// `@arguments(...)` directive convention are extracted by the builder from
// Directives, not carried directly here (spec.md's extended IR
// FragmentSpread.Arguments is populated by the builder reading that
// directive's arguments).
type FragmentSpread struct {
	Name       string
	NameSpan   Span
	Directives []Directive
	Span       Span
}

func (*FragmentSpread) isSelection()    {}
func (f *FragmentSpread) SelSpan() Span { return f.Span }

// InlineFragment is `... on Type @directives { sel }` or bare `... { sel }`.
type InlineFragment struct {
	TypeCondition string // "" if absent
	TypeSpan      Span
	Directives    []Directive
	SelectionSet  []Selection
	Span          Span
}

func (*InlineFragment) isSelection()    {}
func (f *InlineFragment) SelSpan() Span { return f.Span }

// Argument is `name: value`.
type Argument struct {
	Name     string
	NameSpan Span
	Value    Value
}

// Directive is `@name(args)`.
type Directive struct {
	Name      string
	NameSpan  Span
	Arguments []Argument
	Span      Span
}

// ValueKind enumerates the syntactic value forms.
type ValueKind int

const (
	ValInt ValueKind = iota
	ValFloat
	ValString
	ValBool
	ValNull
	ValEnum
	ValVariable
	ValList
	ValObject
)

// Value is a syntactic literal or variable reference; untyped until the
// builder checks it against the schema.
type Value struct {
	Kind     ValueKind
	IntVal   int64
	FltVal   float64
	StrVal   string
	BoolVal  bool
	EnumVal  string
	VarName  string
	List     []Value
	Object   []ObjectField
	Span     Span
}

// ObjectField is one `name: value` pair inside an object literal.
type ObjectField struct {
	Name     string
	NameSpan Span
	Value    Value
}
