package passes

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	ierrors "github.com/viant/queryc/ir/errors"
	"github.com/viant/queryc/schema"
)

var connectionDirectiveName = intern.Intern("connection")
var edgesFieldName = intern.Intern("edges")
var nodeFieldName = intern.Intern("node")
var cursorFieldName = intern.Intern("cursor")
var pageInfoFieldName = intern.Intern("pageInfo")
var firstArgName = intern.Intern("first")
var lastArgName = intern.Intern("last")

func hasArgument(args []ir.Argument, name intern.ID) bool {
	for _, a := range args {
		if a.Name.Value == name {
			return true
		}
	}
	return false
}

// ValidateConnections checks every `@connection`-annotated field against
// the Relay connection shape: a composite (object, interface or union) field
// exposing an `edges { node, cursor }` selection and a `pageInfo`
// selection (spec.md §4.6 "connections"). It does not rewrite the
// Program; transform_connections handles the client-side rewrite once a
// connection field is known-valid.
func ValidateConnections(s *schema.Schema, program *ir.Program) *ierrors.List {
	var errs ierrors.List
	walk := func(sels []ir.Selection) {
		var rec func([]ir.Selection)
		rec = func(list []ir.Selection) {
			for _, sel := range list {
				switch v := sel.(type) {
				case ir.LinkedField:
					checkConnectionField(s, v, &errs)
					rec(v.Selections)
				case ir.InlineFragment:
					rec(v.Selections)
				case ir.Condition:
					rec(v.Selections)
				}
			}
		}
		rec(sels)
	}
	for _, name := range program.OperationNames() {
		walk(program.Operations[name].Selections)
	}
	for _, name := range program.FragmentNames() {
		walk(program.Fragments[name].Selections)
	}
	return &errs
}

func hasConnectionDirective(f ir.LinkedField) (ir.Directive, bool) {
	for _, d := range f.Directives {
		if d.Name.Value == connectionDirectiveName {
			return d, true
		}
	}
	return ir.Directive{}, false
}

func checkConnectionField(s *schema.Schema, f ir.LinkedField, errs *ierrors.List) {
	dir, ok := hasConnectionDirective(f)
	if !ok {
		return
	}
	fieldLoc := f.Loc
	innerType, ok := s.TypeByName(f.Type.InnerNamed())
	if !ok || !innerType.Kind.IsComposite() {
		errs.Add(ierrors.New(ierrors.InvalidConnectionFieldType,
			"Field annotated @connection must return a composite connection type", fieldLoc).
			WithField("field", intern.Lookup(f.Name)))
		return
	}

	if !hasArgument(f.Arguments, firstArgName) && !hasArgument(f.Arguments, lastArgName) {
		errs.Add(ierrors.New(ierrors.InvalidConnectionFieldType,
			"Connection field must declare a 'first' or 'last' pagination argument", fieldLoc).
			WithField("field", intern.Lookup(f.Name)))
	}

	edges := findSelection(f.Selections, edgesFieldName)
	if edges == nil {
		errs.Add(ierrors.New(ierrors.ExpectedConnectionToHaveEdgesSelection,
			"Connection field must select 'edges'", fieldLoc).WithField("directive", intern.Lookup(dir.Name.Value)))
	} else {
		edgeLF, ok := edges.(ir.LinkedField)
		validEdges := ok && edgeLF.Type.IsList() && findSelection(edgeLF.Selections, nodeFieldName) != nil && findSelection(edgeLF.Selections, cursorFieldName) != nil
		if !validEdges {
			errs.Add(ierrors.New(ierrors.ExpectedConnectionToExposeValidEdgesField,
				"Connection 'edges' must be a list exposing 'node' and 'cursor'", fieldLoc))
		}
	}

	if findSelection(f.Selections, pageInfoFieldName) == nil {
		errs.Add(ierrors.New(ierrors.ExpectedConnectionToExposeValidPageInfoField,
			"Connection field must select 'pageInfo'", fieldLoc))
	}
}

func findSelection(sels []ir.Selection, responseKey intern.ID) ir.Selection {
	for _, sel := range sels {
		switch v := sel.(type) {
		case ir.ScalarField:
			if v.ResponseKey() == responseKey {
				return v
			}
		case ir.LinkedField:
			if v.ResponseKey() == responseKey {
				return v
			}
		}
	}
	return nil
}
