// Package build lowers parsed syntaxast.Document trees against a schema
// into the typed ir.Program, producing precise, location-attributed
// validation errors (spec.md §4.3). It runs in two passes: first every
// operation and fragment signature is registered so cross-references
// resolve regardless of declaration order, then every body is built.
package build

import (
	ierrors "github.com/viant/queryc/ir/errors"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/syntaxast"
)

// Builder lowers one or more parsed documents, keyed by file, into a
// Program. It accumulates every validation error it finds rather than
// stopping at the first (spec.md §4.3 "Errors accumulate").
type Builder struct {
	schema *schema.Schema

	fragmentSigs map[intern.ID]*fragmentSignature
	opNames      map[intern.ID]syntaxast.Span
	fragFileKey  map[intern.ID]intern.ID
	opFileKey    map[intern.ID]intern.ID

	errs ierrors.List
}

type fragmentSignature struct {
	syn     *syntaxast.FragmentDefinition
	fileKey intern.ID
}

// New creates a Builder bound to s.
func New(s *schema.Schema) *Builder {
	return &Builder{
		schema:       s,
		fragmentSigs: map[intern.ID]*fragmentSignature{},
		opNames:      map[intern.ID]syntaxast.Span{},
		fragFileKey:  map[intern.ID]intern.ID{},
		opFileKey:    map[intern.ID]intern.ID{},
	}
}

// Build lowers docs (keyed by file key) into a Program sharing s. Returns
// the accumulated error list; a non-empty list means the project's build
// fails, per spec.md §7, but every valid sibling definition is still
// present in the returned Program for diagnostic purposes.
func Build(s *schema.Schema, docs map[intern.ID]*syntaxast.Document) (*ir.Program, *ierrors.List) {
	b := New(s)
	program := ir.NewProgram(s)

	// Pass 1: register signatures so forward references resolve.
	for fileKey, doc := range docs {
		for _, def := range doc.Definitions {
			switch d := def.(type) {
			case *syntaxast.FragmentDefinition:
				name := intern.Intern(d.Name)
				if _, exists := b.fragmentSigs[name]; exists {
					b.errs.Add(ierrors.New(ierrors.DuplicateDefinition,
						"Duplicate fragment definition '"+d.Name+"'",
						loc(fileKey, d.NameSpan)))
					continue
				}
				b.fragmentSigs[name] = &fragmentSignature{syn: d, fileKey: fileKey}
			case *syntaxast.OperationDefinition:
				if d.Name == "" {
					continue
				}
				name := intern.Intern(d.Name)
				if _, exists := b.opNames[name]; exists {
					b.errs.Add(ierrors.New(ierrors.DuplicateDefinition,
						"Duplicate operation definition '"+d.Name+"'",
						loc(fileKey, d.NameSpan)))
					continue
				}
				b.opNames[name] = d.NameSpan
				b.opFileKey[name] = fileKey
			}
		}
	}

	// Pass 2: build bodies.
	for name, sig := range b.fragmentSigs {
		frag := b.buildFragment(name, sig)
		if frag != nil {
			program.PutFragment(frag)
		}
	}
	for fileKey, doc := range docs {
		for _, def := range doc.Definitions {
			opDef, ok := def.(*syntaxast.OperationDefinition)
			if !ok {
				continue
			}
			op := b.buildOperation(fileKey, opDef)
			if op != nil {
				program.PutOperation(op)
			}
		}
	}

	return program, &b.errs
}

func loc(fileKey intern.ID, span syntaxast.Span) ir.Location {
	return ir.Location{FileKey: fileKey, Start: span.Start, End: span.End}
}

func (b *Builder) buildFragment(name intern.ID, sig *fragmentSignature) *ir.FragmentDefinition {
	d := sig.syn
	fileKey := sig.fileKey
	typeCond := intern.Intern(d.TypeCondition)
	if _, ok := b.schema.TypeByName(typeCond); !ok {
		b.errs.Add(ierrors.New(ierrors.UnknownType,
			"Unknown type '"+d.TypeCondition+"' in fragment type condition",
			loc(fileKey, d.TypeSpan)))
		return nil
	}

	ctx := &buildContext{b: b, fileKey: fileKey, parentType: typeCond, globalVars: map[intern.ID]*schema.TypeRef{}}
	selections := ctx.buildSelectionSet(d.SelectionSet, typeCond)
	directives := ctx.buildDirectives(d.Directives, schema.LocFragmentDefinition)

	used := make([]ir.VarDef, 0, len(ctx.globalVars))
	for _, varName := range sortedVarNames(ctx.globalVars) {
		used = append(used, ir.VarDef{Name: ir.At(varName, ir.Location{}), Type: ctx.globalVars[varName]})
	}

	return &ir.FragmentDefinition{
		Name:                ir.At(name, loc(fileKey, d.NameSpan)),
		TypeCondition:       typeCond,
		UsedGlobalVariables: used,
		Directives:          directives,
		Selections:          selections,
	}
}

func (b *Builder) buildOperation(fileKey intern.ID, d *syntaxast.OperationDefinition) *ir.OperationDefinition {
	kind := ir.Query
	switch d.OperationKind {
	case "mutation":
		kind = ir.Mutation
	case "subscription":
		kind = ir.Subscription
	}
	rootType, ok := b.schema.RootTypeFor(kind)
	if !ok {
		b.errs.Add(ierrors.New(ierrors.UnknownType,
			"Schema does not define a root type for "+d.OperationKind,
			loc(fileKey, d.Span)))
		return nil
	}

	ctx := &buildContext{b: b, fileKey: fileKey, parentType: rootType, globalVars: map[intern.ID]*schema.TypeRef{}}
	varDefs := make([]ir.VarDef, 0, len(d.VariableDefinitions))
	declared := map[intern.ID]*schema.TypeRef{}
	for _, vd := range d.VariableDefinitions {
		t := ctx.resolveType(vd.Type)
		name := intern.Intern(vd.Name)
		declared[name] = t
		var def *ir.Value
		if vd.DefaultValue != nil {
			v := ctx.coerceValue(*vd.DefaultValue, t)
			def = &v
		}
		varDefs = append(varDefs, ir.VarDef{Name: ir.At(name, loc(fileKey, vd.NameSpan)), Type: t, DefaultValue: def})
	}
	ctx.declaredVars = declared

	selections := ctx.buildSelectionSet(d.SelectionSet, rootType)
	directives := ctx.buildDirectives(d.Directives, operationLocation(kind))

	var name intern.ID
	if d.Name != "" {
		name = intern.Intern(d.Name)
	}

	return &ir.OperationDefinition{
		OperationKind:       kind,
		Name:                ir.At(name, loc(fileKey, d.NameSpan)),
		Type:                rootType,
		VariableDefinitions: varDefs,
		Directives:          directives,
		Selections:          selections,
	}
}

func operationLocation(kind ir.OperationKind) schema.DirectiveLocation {
	switch kind {
	case ir.Mutation:
		return schema.LocMutation
	case ir.Subscription:
		return schema.LocSubscription
	default:
		return schema.LocQuery
	}
}

// sortedVarNames returns the keys of m in stable Id order, so
// UsedGlobalVariables is deterministic across builds (spec.md §8
// invariant 1).
func sortedVarNames(m map[intern.ID]*schema.TypeRef) []intern.ID {
	keys := make([]intern.ID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j].Less(keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
