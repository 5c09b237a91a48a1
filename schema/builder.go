package schema

import "github.com/viant/queryc/intern"

// Builder assembles a Schema. The textual schema-language parser that would
// normally populate a Builder is out of core scope (spec.md §1); callers
// either hand-construct types (tests, embedders) or drive a Builder from an
// external SDL parser.
type Builder struct {
	s *Schema
}

// NewBuilder starts a new schema build, seeded with the built-in extension
// directives every project schema is implicitly combined with (spec.md §6,
// "Schema" input: "concatenated with a built-in extensions string").
func NewBuilder() *Builder {
	b := &Builder{s: &Schema{
		types:        make(map[intern.ID]*Type),
		directives:   make(map[intern.ID]*DirectiveDef),
		implementors: make(map[intern.ID]map[intern.ID]bool),
	}}
	b.addBuiltinDirectives()
	return b
}

// AddType registers a named type, keyed by its Name.
func (b *Builder) AddType(t *Type) *Builder {
	b.s.types[t.Name] = t
	if t.Kind == Object {
		for _, iface := range t.Interfaces {
			if b.s.implementors[iface] == nil {
				b.s.implementors[iface] = make(map[intern.ID]bool)
			}
			b.s.implementors[iface][t.Name] = true
		}
	}
	return b
}

// AddDirective registers a directive definition.
func (b *Builder) AddDirective(d *DirectiveDef) *Builder {
	b.s.directives[d.Name] = d
	return b
}

// SetRootTypes names the Query/Mutation/Subscription root object types.
func (b *Builder) SetRootTypes(query, mutation, subscription intern.ID) *Builder {
	b.s.queryType = query
	b.s.mutationType = mutation
	b.s.subscription = subscription
	return b
}

// Build finalizes the Schema. Implementor indices were maintained
// incrementally by AddType, so Build is just a clean handoff point.
func (b *Builder) Build() *Schema {
	return b.s
}

func (b *Builder) addBuiltinDirectives() {
	str := func(s string) intern.ID { return intern.Intern(s) }
	mkArg := func(name string, t *TypeRef) *ArgumentDef { return &ArgumentDef{Name: str(name), Type: t} }
	namedString := NewNamed(str("String"))
	namedBoolean := NewNamed(str("Boolean"))
	namedInt := NewNamed(str("Int"))

	for _, d := range []*DirectiveDef{
		{
			Name:      str("connection"),
			Arguments: []*ArgumentDef{mkArg("key", namedString), mkArg("filters", NewList(namedString)), mkArg("handler", namedString)},
			Locations: []DirectiveLocation{LocField},
		},
		{
			Name:      str("module"),
			Arguments: []*ArgumentDef{mkArg("name", namedString)},
			Locations: []DirectiveLocation{LocFragmentSpread},
		},
		{
			Name:      str("match"),
			Arguments: nil,
			Locations: []DirectiveLocation{LocField},
		},
		{
			Name:      str("handle"),
			Arguments: []*ArgumentDef{mkArg("name", namedString), mkArg("key", namedString), mkArg("filters", NewList(namedString)), mkArg("dynamicKey_", namedString)},
			Locations: []DirectiveLocation{LocField},
		},
		{
			Name:      str("required"),
			Arguments: []*ArgumentDef{mkArg("action", namedString)},
			Locations: []DirectiveLocation{LocField, LocInlineFragment},
		},
		{
			Name:      str("refetchable"),
			Arguments: []*ArgumentDef{mkArg("queryName", namedString)},
			Locations: []DirectiveLocation{LocFragmentDefinition},
		},
		{
			Name:      str("appendEdge"),
			Arguments: []*ArgumentDef{mkArg("connections", NewList(namedString))},
			Locations: []DirectiveLocation{LocField},
		},
		{
			Name:      str("prependEdge"),
			Arguments: []*ArgumentDef{mkArg("connections", NewList(namedString))},
			Locations: []DirectiveLocation{LocField},
		},
		{
			Name:      str("appendNode"),
			Arguments: []*ArgumentDef{mkArg("connections", NewList(namedString)), mkArg("edgeTypeName", namedString)},
			Locations: []DirectiveLocation{LocField},
		},
		{
			Name:      str("prependNode"),
			Arguments: []*ArgumentDef{mkArg("connections", NewList(namedString)), mkArg("edgeTypeName", namedString)},
			Locations: []DirectiveLocation{LocField},
		},
		{
			Name:      str("deleteRecord"),
			Arguments: []*ArgumentDef{mkArg("connections", NewList(namedString))},
			Locations: []DirectiveLocation{LocField},
		},
		{
			Name:      str("defer"),
			Arguments: []*ArgumentDef{mkArg("label", namedString), mkArg("if", namedBoolean)},
			Locations: []DirectiveLocation{LocFragmentSpread, LocInlineFragment},
		},
		{
			Name:      str("stream"),
			Arguments: []*ArgumentDef{mkArg("label", namedString), mkArg("initial_count", namedInt), mkArg("if", namedBoolean)},
			Locations: []DirectiveLocation{LocField},
		},
		{
			Name:      str("include"),
			Arguments: []*ArgumentDef{mkArg("if", namedBoolean)},
			Locations: []DirectiveLocation{LocField, LocFragmentSpread, LocInlineFragment},
		},
		{
			Name:      str("skip"),
			Arguments: []*ArgumentDef{mkArg("if", namedBoolean)},
			Locations: []DirectiveLocation{LocField, LocFragmentSpread, LocInlineFragment},
		},
		{
			Name:      str("arguments"),
			Arguments: nil,
			Locations: []DirectiveLocation{LocFragmentSpread},
		},
	} {
		d.IsExtension = true
		b.s.directives[d.Name] = d
	}
}

// BuiltinExtensionNames lists the directive names contributed by
// NewBuilder's implicit extensions document, for callers (e.g.
// skip_client_extensions) that need to recognize "was this declared by the
// user or injected by us" without re-deriving the list.
func BuiltinExtensionNames() []string {
	return []string{
		"connection", "module", "match", "handle", "required", "refetchable",
		"appendEdge", "prependEdge", "appendNode", "prependNode", "deleteRecord",
		"defer", "stream", "include", "skip", "arguments",
	}
}
