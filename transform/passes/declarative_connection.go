package passes

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	ierrors "github.com/viant/queryc/ir/errors"
)

var appendEdgeDirectiveName = intern.Intern("appendEdge")
var prependEdgeDirectiveName = intern.Intern("prependEdge")
var appendNodeDirectiveName = intern.Intern("appendNode")
var prependNodeDirectiveName = intern.Intern("prependNode")
var deleteRecordDirectiveName = intern.Intern("deleteRecord")
var internalDeclarativeConnectionName = intern.Intern("__declarativeConnection")
var connectionsArgName = intern.Intern("connections")

// DeclarativeConnection validates and lowers the client mutation
// directives that splice a mutation payload field into one or more store
// connections without a hand-written `@handle` updater (spec.md §4.6
// "declarative_connection"): `@appendEdge`/`@prependEdge` and
// `@appendNode`/`@prependNode` require a composite (linked) field;
// `@deleteRecord` requires a scalar field. Only that composite/scalar
// split is checked: an edge field's selections (`node`, `cursor`) and the
// type of a `@deleteRecord` field are not inspected. A field
// whose shape doesn't match its directive surfaces the matching
// `*Unsupported` validation error. Every recognized directive is lowered
// into a single internal `__declarativeConnection` marker carrying the
// operation kind and the `connections` argument, so codegen doesn't need
// to re-inspect which of the five user-facing directives was written.
func DeclarativeConnection(program *ir.Program) (*ir.Program, *ierrors.List) {
	var errs ierrors.List
	out := ir.NewProgram(program.Schema)

	var rewrite func(sels []ir.Selection) []ir.Selection
	rewrite = func(sels []ir.Selection) []ir.Selection {
		result := make([]ir.Selection, len(sels))
		for i, sel := range sels {
			switch v := sel.(type) {
			case ir.ScalarField:
				v.Directives = lowerDeclarativeConnection(v.Directives, false, v.Loc, &errs)
				result[i] = v
			case ir.LinkedField:
				v.Directives = lowerDeclarativeConnection(v.Directives, true, v.Loc, &errs)
				v.Selections = rewrite(v.Selections)
				result[i] = v
			case ir.InlineFragment:
				v.Selections = rewrite(v.Selections)
				result[i] = v
			case ir.Condition:
				v.Selections = rewrite(v.Selections)
				result[i] = v
			default:
				result[i] = sel
			}
		}
		return result
	}

	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		clone := *op
		clone.Selections = rewrite(op.Selections)
		out.PutOperation(&clone)
	}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		clone := *f
		clone.Selections = rewrite(f.Selections)
		out.PutFragment(&clone)
	}
	return out, &errs
}

func lowerDeclarativeConnection(dirs []ir.Directive, isComposite bool, loc ir.Location, errs *ierrors.List) []ir.Directive {
	out := make([]ir.Directive, 0, len(dirs))
	for _, d := range dirs {
		kind := d.Name.Value
		switch kind {
		case appendEdgeDirectiveName, prependEdgeDirectiveName:
			if !isComposite {
				errs.Add(declarativeConnectionError(kind, ierrors.AppendEdgeUnsupported, ierrors.PrependEdgeUnsupported, loc))
				out = append(out, d)
				continue
			}
			out = append(out, markerDirective(kind, d, loc))
		case appendNodeDirectiveName, prependNodeDirectiveName:
			if !isComposite {
				errs.Add(declarativeConnectionError(kind, ierrors.AppendNodeUnsupported, ierrors.PrependNodeUnsupported, loc))
				out = append(out, d)
				continue
			}
			out = append(out, markerDirective(kind, d, loc))
		case deleteRecordDirectiveName:
			if isComposite {
				errs.Add(ierrors.New(ierrors.DeleteRecordUnsupported,
					"@deleteRecord must be used on a scalar ID-typed field", loc))
				out = append(out, d)
				continue
			}
			out = append(out, markerDirective(kind, d, loc))
		default:
			out = append(out, d)
		}
	}
	return out
}

func declarativeConnectionError(kind intern.ID, appendCode, prependCode ierrors.Code, loc ir.Location) *ierrors.ValidationError {
	name := intern.Lookup(kind)
	code := appendCode
	if name == "prependEdge" || name == "prependNode" {
		code = prependCode
	}
	return ierrors.New(code, "@"+name+" used on a field with an incompatible shape", loc)
}

func markerDirective(kind intern.ID, original ir.Directive, loc ir.Location) ir.Directive {
	args := append([]ir.Argument{}, original.Arguments...)
	args = append(args, ir.Argument{
		Name: ir.At(intern.Intern("kind"), loc),
		Value: ir.At(ir.Value{
			Kind:  ir.VConstant,
			Const: ir.Constant{Kind: ir.CEnum, StrVal: intern.Lookup(kind)},
		}, loc),
	})
	return ir.Directive{
		Name:      ir.At(internalDeclarativeConnectionName, loc),
		Arguments: args,
	}
}
