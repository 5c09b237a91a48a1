package passes

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/transform"
)

var handleDirectiveName = intern.Intern("handle")
var internalHandleFieldName = intern.Intern("__handleField")

// HandleFields lifts each `@handle(name, key, filters, dynamicKey_?)`
// directive into a codegen-facing `__handleField` marker directive
// carrying the same arguments, so downstream identity/dedupe treats it as
// internal metadata rather than a user directive a reader would need to
// echo back (spec.md §4.6 "handle_fields").
func HandleFields(program *ir.Program) (*ir.Program, error) {
	return transform.Run(program, &transform.NodeVisitor{
		VisitScalarField: func(d *transform.Dispatcher, f ir.ScalarField) transform.Transformed[ir.Selection] {
			next, changed := liftHandleDirectives(f.Directives)
			if !changed {
				return transform.Kept[ir.Selection]()
			}
			f.Directives = next
			return transform.Replaced[ir.Selection](f)
		},
		VisitLinkedField: func(d *transform.Dispatcher, f ir.LinkedField) transform.Transformed[ir.Selection] {
			t := d.DefaultLinkedField(f)
			lf, outcome := asLinkedField(t, f)
			if outcome == transform.Delete {
				return t
			}
			next, changed := liftHandleDirectives(lf.Directives)
			if !changed {
				return t
			}
			lf.Directives = next
			return transform.Replaced[ir.Selection](lf)
		},
	})
}

func asLinkedField(t transform.Transformed[ir.Selection], fallback ir.LinkedField) (ir.LinkedField, transform.Outcome) {
	switch t.Outcome {
	case transform.Replace:
		return t.Value.(ir.LinkedField), transform.Replace
	case transform.Delete:
		return ir.LinkedField{}, transform.Delete
	default:
		return fallback, transform.Keep
	}
}

func liftHandleDirectives(dirs []ir.Directive) ([]ir.Directive, bool) {
	changed := false
	out := make([]ir.Directive, 0, len(dirs))
	for _, d := range dirs {
		if d.Name.Value == handleDirectiveName {
			changed = true
			out = append(out, ir.Directive{
				Name:      ir.At(internalHandleFieldName, d.Name.Location),
				Arguments: d.Arguments,
			})
			continue
		}
		out = append(out, d)
	}
	if !changed {
		return dirs, false
	}
	return out, true
}
