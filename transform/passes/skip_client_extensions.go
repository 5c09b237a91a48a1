package passes

import (
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/transform"
)

// SkipClientExtensions deletes every selection the earlier
// client_extensions pass marked with `@__clientField` — fields that exist
// only in the built-in extensions document and have no server-side
// counterpart, so operation text and the server-facing pipelines must not
// mention them (spec.md §4.6 "skip_client_extensions"). A LinkedField or
// Condition left with no surviving children collapses via the transform
// framework's default Keep/Delete/Replace contract.
func SkipClientExtensions(program *ir.Program) (*ir.Program, error) {
	return transform.Run(program, &transform.NodeVisitor{
		VisitScalarField: func(d *transform.Dispatcher, f ir.ScalarField) transform.Transformed[ir.Selection] {
			if hasDirective(f.Directives, internalClientFieldName) {
				return transform.Deleted[ir.Selection]()
			}
			return transform.Kept[ir.Selection]()
		},
		VisitLinkedField: func(d *transform.Dispatcher, f ir.LinkedField) transform.Transformed[ir.Selection] {
			if hasDirective(f.Directives, internalClientFieldName) {
				return transform.Deleted[ir.Selection]()
			}
			return d.DefaultLinkedField(f)
		},
	})
}
