package passes

import (
	"sync"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/transform"
)

var requiredDirectiveName = intern.Intern("required")
var internalRequiredFieldName = intern.Intern("__required")
var requiredActionArgName = intern.Intern("action")

// RequiredAction mirrors the enum values typegen expects on a `@required`
// field's side metadata: what happens at runtime if the field is missing.
type RequiredAction string

const (
	RequiredActionNone   RequiredAction = "NONE"
	RequiredActionLog    RequiredAction = "LOG"
	RequiredActionThrow  RequiredAction = "THROW"
)

// RequiredField is one entry of the side metadata `required_directive`
// produces for typegen: a field marked `@required(action: ...)`, keyed by
// response key, with the action to take if the server returns null.
type RequiredField struct {
	ResponseKey intern.ID
	Action      RequiredAction
	Loc         ir.Location
}

// RequiredDirective translates each `@required(action)` directive into a
// side metadata entry consumed by typegen (spec.md §4.6
// "required_directive"), and lifts the directive itself into an internal
// `__required` marker so identity/dedupe treat it as non-identity-bearing,
// the same convention `handle_fields` and `client_extensions` use for
// their own lifted directives.
func RequiredDirective(program *ir.Program) (*ir.Program, []RequiredField, error) {
	var mu sync.Mutex
	var metadata []RequiredField
	record := func(f RequiredField) {
		mu.Lock()
		metadata = append(metadata, f)
		mu.Unlock()
	}
	out, err := transform.Run(program, &transform.NodeVisitor{
		VisitScalarField: func(d *transform.Dispatcher, f ir.ScalarField) transform.Transformed[ir.Selection] {
			next, found := liftRequiredDirective(f.Directives, f.ResponseKey(), f.Loc, record)
			if !found {
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
			next, found := liftRequiredDirective(lf.Directives, lf.ResponseKey(), lf.Loc, record)
			if !found {
				return t
			}
			lf.Directives = next
			return transform.Replaced[ir.Selection](lf)
		},
	})
	return out, metadata, err
}

// liftRequiredDirective reports each `@required` directive it lifts to
// record via a caller-supplied, concurrency-safe callback — transform.Run
// dispatches operations and fragments on separate goroutines, so a shared
// slice can't be appended to directly from here.
func liftRequiredDirective(dirs []ir.Directive, responseKey intern.ID, loc ir.Location, record func(RequiredField)) ([]ir.Directive, bool) {
	found := false
	out := make([]ir.Directive, 0, len(dirs))
	for _, d := range dirs {
		if d.Name.Value != requiredDirectiveName {
			out = append(out, d)
			continue
		}
		found = true
		record(RequiredField{
			ResponseKey: responseKey,
			Action:      requiredAction(d),
			Loc:         loc,
		})
		out = append(out, ir.Directive{Name: ir.At(internalRequiredFieldName, d.Name.Location)})
	}
	if !found {
		return dirs, false
	}
	return out, true
}

func requiredAction(d ir.Directive) RequiredAction {
	for _, a := range d.Arguments {
		if a.Name.Value != requiredActionArgName {
			continue
		}
		if a.Value.Value.Kind == ir.VConstant && a.Value.Value.Const.Kind == ir.CEnum {
			return RequiredAction(a.Value.Value.Const.StrVal)
		}
	}
	return RequiredActionNone
}
