package build

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	ierrors "github.com/viant/queryc/ir/errors"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/syntaxast"
)

// buildContext carries the per-definition state a single operation or
// fragment build needs: which file it came from, the composite type
// currently in scope, and variable-usage bookkeeping. A fresh buildContext
// is created per top-level definition; LinkedField/InlineFragment
// recursion reuses it with a narrowed parentType (spec.md §4.3's checks
// are all scoped to "the current selection build").
type buildContext struct {
	b          *Builder
	fileKey    intern.ID
	parentType intern.ID

	// declaredVars is non-nil for an operation build: the operation's own
	// variable definitions. nil for a fragment build, where instead every
	// variable reference contributes to globalVars (spec.md §3
	// "used_global_variables").
	declaredVars map[intern.ID]*schema.TypeRef
	globalVars   map[intern.ID]*schema.TypeRef
}

func (c *buildContext) addErr(e *ierrors.ValidationError) {
	c.b.errs.Add(e)
}

// recordVariableUse validates a variable reference against its usage-site
// expected type, tracking either against the enclosing operation's
// declarations or, in a fragment, against the accumulated global-variable
// requirements (spec.md §4.3 "Variable usage tracking").
func (c *buildContext) recordVariableUse(name intern.ID, expected *schema.TypeRef, at ir.Location) {
	if c.declaredVars != nil {
		declared, ok := c.declaredVars[name]
		if !ok {
			c.addErr(ierrorsExpectedVariablesToBeDefined(intern.Lookup(name), at))
			return
		}
		if expected != nil && declared != nil && !typesCompatible(declared, expected) {
			c.addErr(ierrorsIncompatibleVariableUsage(intern.Lookup(name), declared.String(), expected.String(), at))
		}
		return
	}
	if existing, ok := c.globalVars[name]; ok {
		if expected != nil && existing != nil && !existing.Equal(expected) && !typesCompatible(existing, expected) {
			c.addErr(ierrorsIncompatibleVariableUsage(intern.Lookup(name), existing.String(), expected.String(), at))
		}
		return
	}
	c.globalVars[name] = expected
}

// typesCompatible reports whether a variable declared as declared can be
// used at a site expecting expected: same named type and list depth, and
// not more nullable than the site requires.
func typesCompatible(declared, expected *schema.TypeRef) bool {
	if declared == nil || expected == nil {
		return true
	}
	if expected.IsNonNull() && !declared.IsNonNull() {
		return false
	}
	return declared.InnerNamed() == expected.InnerNamed() && declared.ListDepth() == expected.ListDepth()
}

// buildDirectives lowers a syntax directive list, validating each name and
// location against the schema.
func (c *buildContext) buildDirectives(dirs []syntaxast.Directive, at schema.DirectiveLocation) []ir.Directive {
	out := make([]ir.Directive, 0, len(dirs))
	for _, d := range dirs {
		name := intern.Intern(d.Name)
		nameLoc := loc(c.fileKey, d.NameSpan)
		def, ok := c.b.schema.DirectiveByName(name)
		if !ok {
			c.addErr(ierrorsUnknownDirective(d.Name, nameLoc))
			out = append(out, ir.Directive{Name: ir.At(name, nameLoc)})
			continue
		}
		if !def.AllowedAt(at) {
			c.addErr(ierrorsInvalidDirectiveLocation(d.Name, directiveLocationName(at), nameLoc))
		}
		args := c.buildArguments(d.Arguments, def.Arguments, "@"+d.Name)
		out = append(out, ir.Directive{Name: ir.At(name, nameLoc), Arguments: args})
	}
	return out
}

func directiveLocationName(loc schema.DirectiveLocation) string {
	switch loc {
	case schema.LocField:
		return "FIELD"
	case schema.LocFragmentSpread:
		return "FRAGMENT_SPREAD"
	case schema.LocInlineFragment:
		return "INLINE_FRAGMENT"
	case schema.LocFragmentDefinition:
		return "FRAGMENT_DEFINITION"
	case schema.LocQuery:
		return "QUERY"
	case schema.LocMutation:
		return "MUTATION"
	case schema.LocSubscription:
		return "SUBSCRIPTION"
	case schema.LocVariableDefinition:
		return "VARIABLE_DEFINITION"
	default:
		return "UNKNOWN"
	}
}

// buildSelectionSet lowers a syntax selection list in scope of parentType,
// wrapping any selection carrying @include/@skip in an ir.Condition
// (spec.md §3: Condition is a derived wrapper, not literal syntax).
func (c *buildContext) buildSelectionSet(sels []syntaxast.Selection, parentType intern.ID) []ir.Selection {
	out := make([]ir.Selection, 0, len(sels))
	for _, s := range sels {
		built, ok := c.buildSelection(s, parentType)
		if ok {
			out = append(out, built)
		}
	}
	return out
}

// buildSelection lowers one selection, returning (selection, true) or
// (nil, false) if a local error dropped it from the resulting IR (spec.md
// §4.3 policy: "drop the current branch ... continue building sibling
// selections").
func (c *buildContext) buildSelection(s syntaxast.Selection, parentType intern.ID) (ir.Selection, bool) {
	switch sel := s.(type) {
	case *syntaxast.Field:
		return c.wrapCondition(c.buildField(sel, parentType), sel.Directives, sel.Span)
	case *syntaxast.FragmentSpread:
		return c.wrapCondition(c.buildFragmentSpread(sel, parentType), sel.Directives, sel.Span)
	case *syntaxast.InlineFragment:
		return c.wrapCondition(c.buildInlineFragment(sel, parentType), sel.Directives, sel.Span)
	default:
		return nil, false
	}
}

// wrapCondition checks dirs for @include/@skip with a literal or variable
// `if` argument and, if present, wraps inner in an ir.Condition. Only the
// first @include/@skip is honored; GraphQL permits both simultaneously but
// this query language's IR models one Condition per selection, matching
// the teacher pattern of "one transform responsibility, one wrapper".
func (c *buildContext) wrapCondition(inner ir.Selection, dirs []syntaxast.Directive, span syntaxast.Span) (ir.Selection, bool) {
	if inner == nil {
		return nil, false
	}
	for _, d := range dirs {
		if d.Name != "include" && d.Name != "skip" {
			continue
		}
		kind := ir.If
		if d.Name == "skip" {
			kind = ir.Unless
		}
		var cv ir.ConditionValue
		for _, a := range d.Arguments {
			if a.Name != "if" {
				continue
			}
			if a.Value.Kind == syntaxast.ValVariable {
				varName := intern.Intern(a.Value.VarName)
				c.recordVariableUse(varName, schema.NewNonNull(schema.NewNamed(intern.Intern("Boolean"))), loc(c.fileKey, a.Value.Span))
				cv = ir.ConditionValue{IsVariable: true, Variable: varName}
			} else {
				cv = ir.ConditionValue{Literal: a.Value.BoolVal}
			}
		}
		return ir.Condition{ConditionKind: kind, Value: cv, Selections: []ir.Selection{inner}, Loc: loc(c.fileKey, span)}, true
	}
	return inner, true
}

func (c *buildContext) buildField(f *syntaxast.Field, parentType intern.ID) ir.Selection {
	typ, ok := c.b.schema.TypeByName(parentType)
	if !ok {
		return nil
	}
	var fieldName intern.ID
	if f.Name == "__typename" {
		fieldName = intern.Intern("__typename")
		fieldLoc := loc(c.fileKey, f.NameSpan)
		scalar := ir.ScalarField{
			Alias: aliasID(f),
			Name:  fieldName,
			Type:  schema.NewNonNull(schema.NewNamed(intern.Intern("String"))),
			Loc:   fieldLoc,
		}
		if len(f.Directives) > 0 {
			scalar.Directives = c.buildDirectives(f.Directives, schema.LocField)
		}
		return scalar
	}
	fieldName = intern.Intern(f.Name)
	fieldLoc := loc(c.fileKey, f.NameSpan)
	fd, ok := typ.FieldByName(fieldName)
	if !ok {
		c.addErr(ierrorsUnknownField(intern.Lookup(parentType), f.Name, fieldLoc))
		return nil
	}
	args := c.buildArguments(f.Arguments, fd.Arguments, f.Name)
	directives := c.buildDirectives(f.Directives, schema.LocField)

	innerNamed := fd.Type.InnerNamed()
	innerType, innerOK := c.b.schema.TypeByName(innerNamed)
	isComposite := innerOK && innerType.Kind.IsComposite()

	if isComposite {
		if len(f.SelectionSet) == 0 {
			c.addErr(ierrorsExpectedSelectionsOnObject(intern.Lookup(parentType), f.Name, fieldLoc))
			return nil
		}
		selections := c.buildSelectionSet(f.SelectionSet, innerNamed)
		return ir.LinkedField{
			Alias: aliasID(f), Name: fieldName, Arguments: args, Directives: directives,
			Type: fd.Type, Selections: selections, Loc: fieldLoc,
		}
	}
	if len(f.SelectionSet) != 0 {
		c.addErr(ierrorsInvalidSelectionsOnScalar(intern.Lookup(parentType), f.Name, fieldLoc))
		return nil
	}
	return ir.ScalarField{
		Alias: aliasID(f), Name: fieldName, Arguments: args, Directives: directives,
		Type: fd.Type, Loc: fieldLoc,
	}
}

func aliasID(f *syntaxast.Field) intern.ID {
	if f.Alias == "" {
		return 0
	}
	return intern.Intern(f.Alias)
}

func (c *buildContext) buildFragmentSpread(s *syntaxast.FragmentSpread, parentType intern.ID) ir.Selection {
	name := intern.Intern(s.Name)
	spreadLoc := loc(c.fileKey, s.Span)
	sig, ok := c.b.fragmentSigs[name]
	if !ok {
		c.addErr(ierrorsUndefinedFragment(s.Name, spreadLoc))
		return nil
	}
	targetType := intern.Intern(sig.syn.TypeCondition)
	if !c.b.schema.AreOverlapping(parentType, targetType) {
		c.addErr(ierrorsInvalidFragmentSpreadType(s.Name, sig.syn.TypeCondition, intern.Lookup(parentType), spreadLoc))
		return nil
	}

	var args []ir.Argument
	var rest []syntaxast.Directive
	for _, d := range s.Directives {
		if d.Name == "arguments" {
			for _, a := range d.Arguments {
				args = append(args, ir.Argument{
					Name:  ir.At(intern.Intern(a.Name), loc(c.fileKey, a.NameSpan)),
					Value: ir.At(c.coerceValue(a.Value, nil), loc(c.fileKey, a.Value.Span)),
				})
			}
			continue
		}
		rest = append(rest, d)
	}
	directives := c.buildDirectives(rest, schema.LocFragmentSpread)
	return ir.FragmentSpread{FragmentName: name, Arguments: args, Directives: directives, Loc: spreadLoc}
}

func (c *buildContext) buildInlineFragment(f *syntaxast.InlineFragment, parentType intern.ID) ir.Selection {
	scopeType := parentType
	var typeCond intern.ID
	inlineLoc := loc(c.fileKey, f.Span)
	if f.TypeCondition != "" {
		typeCond = intern.Intern(f.TypeCondition)
		if _, ok := c.b.schema.TypeByName(typeCond); !ok {
			c.addErr(ierrorsUnknownType(f.TypeCondition, loc(c.fileKey, f.TypeSpan)))
			return nil
		}
		if !c.b.schema.AreOverlapping(parentType, typeCond) {
			c.addErr(ierrorsInvalidInlineFragmentTypeCondition(f.TypeCondition, intern.Lookup(parentType), loc(c.fileKey, f.TypeSpan)))
			return nil
		}
		scopeType = typeCond
	}
	directives := c.buildDirectives(f.Directives, schema.LocInlineFragment)
	selections := c.buildSelectionSet(f.SelectionSet, scopeType)
	return ir.InlineFragment{TypeCondition: typeCond, Directives: directives, Selections: selections, Loc: inlineLoc}
}
