// Package schema provides a read-only typed view over one or more combined
// server schemas: named types, fields, directives, and type references,
// with lookups and subtype/assignability queries. Parsing schema-language
// text into this view is out of core scope (spec.md §1); Builder exists so
// the rest of the compiler has a concrete Schema to build IR against.
package schema

import (
	"fmt"

	"github.com/viant/queryc/intern"
)

// Kind enumerates the named-type kinds a GraphQL-like schema supports.
type Kind int

const (
	Scalar Kind = iota
	Enum
	Object
	Interface
	Union
	InputObject
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "SCALAR"
	case Enum:
		return "ENUM"
	case Object:
		return "OBJECT"
	case Interface:
		return "INTERFACE"
	case Union:
		return "UNION"
	case InputObject:
		return "INPUT_OBJECT"
	default:
		return "UNKNOWN"
	}
}

// IsComposite reports whether selections are legal on this kind (object,
// interface, union) as opposed to a scalar leaf.
func (k Kind) IsComposite() bool {
	return k == Object || k == Interface || k == Union
}

// ArgumentDef is a declared argument on a field or directive.
type ArgumentDef struct {
	Name         intern.ID
	Type         *TypeRef
	DefaultValue interface{} // constant default, or nil
}

// FieldDef is a declared field on an Object/Interface type, or InputObject.
type FieldDef struct {
	Name        intern.ID
	Type        *TypeRef
	Arguments   []*ArgumentDef
	ParentType  intern.ID
	IsExtension bool // declared in the built-in extensions document
}

// FieldID addresses a field by its owning type and its own name.
type FieldID struct {
	Parent intern.ID
	Name   intern.ID
}

// DirectiveLocation enumerates where a directive is legal to apply.
type DirectiveLocation int

const (
	LocField DirectiveLocation = iota
	LocFragmentSpread
	LocInlineFragment
	LocFragmentDefinition
	LocQuery
	LocMutation
	LocSubscription
	LocVariableDefinition
)

// DirectiveDef is a declared directive.
type DirectiveDef struct {
	Name        intern.ID
	Arguments   []*ArgumentDef
	Locations   []DirectiveLocation
	Repeatable  bool
	IsExtension bool
}

// AllowedAt reports whether loc is one of the directive's declared
// locations.
func (d *DirectiveDef) AllowedAt(loc DirectiveLocation) bool {
	for _, l := range d.Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// argByName looks up a declared argument by name.
func argByName(args []*ArgumentDef, name intern.ID) (*ArgumentDef, bool) {
	for _, a := range args {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// ArgumentByName on a FieldDef.
func (f *FieldDef) ArgumentByName(name intern.ID) (*ArgumentDef, bool) {
	return argByName(f.Arguments, name)
}

// ArgumentByName on a DirectiveDef.
func (d *DirectiveDef) ArgumentByName(name intern.ID) (*ArgumentDef, bool) {
	return argByName(d.Arguments, name)
}

// Type is a named type in the schema.
type Type struct {
	Name Intern
	Kind Kind

	// Object / Interface
	Fields     map[intern.ID]*FieldDef
	Interfaces []intern.ID // interfaces this object declares it implements

	// Union
	UnionMembers []intern.ID

	// Enum
	EnumValues []intern.ID

	// InputObject
	InputFields map[intern.ID]*FieldDef

	fieldOrder []intern.ID
}

// Intern is a re-export of intern.ID scoped to this file's readability;
// Type.Name is an intern.ID like everything else.
type Intern = intern.ID

// FieldByName looks up a field declared directly on this type.
func (t *Type) FieldByName(name intern.ID) (*FieldDef, bool) {
	if t.Fields == nil {
		return nil, false
	}
	f, ok := t.Fields[name]
	return f, ok
}

// OrderedFields returns fields in declaration order, for deterministic
// iteration (e.g. when synthesizing id/typename selections).
func (t *Type) OrderedFields() []*FieldDef {
	out := make([]*FieldDef, 0, len(t.fieldOrder))
	for _, name := range t.fieldOrder {
		out = append(out, t.Fields[name])
	}
	return out
}

// AddField registers a field and preserves declaration order.
func (t *Type) AddField(f *FieldDef) {
	if t.Fields == nil {
		t.Fields = make(map[intern.ID]*FieldDef)
	}
	if _, exists := t.Fields[f.Name]; !exists {
		t.fieldOrder = append(t.fieldOrder, f.Name)
	}
	f.ParentType = t.Name
	t.Fields[f.Name] = f
}

// Schema is the immutable, read-only typed view used by the rest of the
// compiler. Construct with Builder, then treat as read-only.
type Schema struct {
	types        map[intern.ID]*Type
	directives   map[intern.ID]*DirectiveDef
	queryType    intern.ID
	mutationType intern.ID
	subscription intern.ID

	// implementors maps an interface name to the set of object types that
	// declare they implement it, the inverse of Type.Interfaces.
	implementors map[intern.ID]map[intern.ID]bool
}

// TypeByName looks up a named type.
func (s *Schema) TypeByName(name intern.ID) (*Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// MustTypeByName panics if the type is unknown; used where the caller has
// already validated existence (e.g. after IsSubtype resolved both sides).
func (s *Schema) MustTypeByName(name intern.ID) *Type {
	t, ok := s.types[name]
	if !ok {
		panic(fmt.Sprintf("schema: unknown type %q", intern.Lookup(name)))
	}
	return t
}

// Field resolves a field on its declared parent type.
func (s *Schema) Field(id FieldID) (*FieldDef, bool) {
	t, ok := s.types[id.Parent]
	if !ok {
		return nil, false
	}
	return t.FieldByName(id.Name)
}

// DirectiveByName looks up a declared directive.
func (s *Schema) DirectiveByName(name intern.ID) (*DirectiveDef, bool) {
	d, ok := s.directives[name]
	return d, ok
}

// QueryType, MutationType, SubscriptionType return the root operation
// type names, or the zero intern.ID if the schema does not declare one.
func (s *Schema) QueryType() intern.ID        { return s.queryType }
func (s *Schema) MutationType() intern.ID     { return s.mutationType }
func (s *Schema) SubscriptionType() intern.ID { return s.subscription }

// RootTypeFor returns the root type name for an operation kind.
func (s *Schema) RootTypeFor(kind OperationKind) (intern.ID, bool) {
	switch kind {
	case Query:
		return s.queryType, s.queryType != 0
	case Mutation:
		return s.mutationType, s.mutationType != 0
	case Subscription:
		return s.subscription, s.subscription != 0
	}
	return 0, false
}

// OperationKind mirrors ir.OperationKind without introducing an import
// cycle; ir re-exports this type.
type OperationKind int

const (
	Query OperationKind = iota
	Mutation
	Subscription
)

// IsSubtype reports whether child is parent, implements parent (interface),
// or is a member of parent (union). Scalars/enums are only subtypes of
// themselves.
func (s *Schema) IsSubtype(parent, child intern.ID) bool {
	if parent == child {
		return true
	}
	p, ok := s.types[parent]
	if !ok {
		return false
	}
	switch p.Kind {
	case Interface:
		if impls, ok := s.implementors[parent]; ok {
			return impls[child]
		}
		return false
	case Union:
		for _, m := range p.UnionMembers {
			if m == child {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// AreOverlapping reports whether a and b could both describe the same
// concrete object at runtime — used to validate fragment type conditions
// against their parent type (spec.md §4.3 InvalidFragmentSpreadType /
// InvalidInlineFragmentTypeCondition).
func (s *Schema) AreOverlapping(a, b intern.ID) bool {
	if a == b {
		return true
	}
	if s.IsSubtype(a, b) || s.IsSubtype(b, a) {
		return true
	}
	// Two abstract types overlap if they share at least one concrete
	// implementor/member.
	concreteA := s.concreteTypesOf(a)
	concreteB := s.concreteTypesOf(b)
	for c := range concreteA {
		if concreteB[c] {
			return true
		}
	}
	return false
}

func (s *Schema) concreteTypesOf(name intern.ID) map[intern.ID]bool {
	out := map[intern.ID]bool{}
	t, ok := s.types[name]
	if !ok {
		return out
	}
	switch t.Kind {
	case Object:
		out[name] = true
	case Interface:
		for impl := range s.implementors[name] {
			out[impl] = true
		}
	case Union:
		for _, m := range t.UnionMembers {
			out[m] = true
		}
	}
	return out
}

// GetTypeString renders a TypeReference for diagnostics; thin wrapper kept
// on Schema so call sites don't need to know TypeRef.String() exists
// independently (mirrors the teacher's accessor-on-container style).
func (s *Schema) GetTypeString(ref *TypeRef) string {
	return ref.String()
}
