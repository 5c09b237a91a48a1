package passes

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/transform"
)

var internalConnectionMetadataName = intern.Intern("__connection")
var afterArgName = intern.Intern("after")
var beforeArgName = intern.Intern("before")
var hasNextPageFieldName = intern.Intern("hasNextPage")
var hasPreviousPageFieldName = intern.Intern("hasPreviousPage")
var startCursorFieldName = intern.Intern("startCursor")
var endCursorFieldName = intern.Intern("endCursor")

// paginationArgNames are the Relay cursor-pagination arguments excluded from
// a connection's canonical filter key, since they select a page rather than
// a distinct result set.
var paginationArgNames = map[intern.ID]bool{
	firstArgName:  true,
	lastArgName:   true,
	afterArgName:  true,
	beforeArgName: true,
}

// TransformConnections rewrites every already-validated `@connection` field
// to the client pagination convention: it tags the field with a
// `__connection` marker directive carrying its non-pagination arguments in
// source order (the store's cache key ignores the page you're on); the
// marker is not in ir's internal-directive set, so Directive.IsInternal
// reports false for it. It also ensures
// `pageInfo` requests the four cursor fields the runtime pager needs,
// injecting whichever are missing (spec.md §4.6 "transform_connections").
func TransformConnections(program *ir.Program) (*ir.Program, error) {
	return transform.Run(program, &transform.NodeVisitor{
		VisitLinkedField: func(d *transform.Dispatcher, f ir.LinkedField) transform.Transformed[ir.Selection] {
			t := d.DefaultLinkedField(f)
			lf, outcome := asLinkedField(t, f)
			if outcome == transform.Delete {
				return t
			}
			if !hasDirective(lf.Directives, connectionDirectiveName) {
				return t
			}
			lf.Directives = append(append([]ir.Directive{}, lf.Directives...), ir.Directive{
				Name:      ir.At(internalConnectionMetadataName, lf.Loc),
				Arguments: filterPaginationArgs(lf.Arguments),
			})
			lf.Selections = withPageInfoCursors(lf.Selections)
			return transform.Replaced[ir.Selection](lf)
		},
	})
}

func hasDirective(dirs []ir.Directive, name intern.ID) bool {
	for _, d := range dirs {
		if d.Name.Value == name {
			return true
		}
	}
	return false
}

func filterPaginationArgs(args []ir.Argument) []ir.Argument {
	out := make([]ir.Argument, 0, len(args))
	for _, a := range args {
		if !paginationArgNames[a.Name.Value] {
			out = append(out, a)
		}
	}
	return out
}

func withPageInfoCursors(sels []ir.Selection) []ir.Selection {
	out := make([]ir.Selection, len(sels))
	copy(out, sels)
	for i, sel := range out {
		lf, ok := sel.(ir.LinkedField)
		if !ok || lf.ResponseKey() != pageInfoFieldName {
			continue
		}
		lf.Selections = ensureScalar(lf.Selections, hasNextPageFieldName)
		lf.Selections = ensureScalar(lf.Selections, hasPreviousPageFieldName)
		lf.Selections = ensureScalar(lf.Selections, startCursorFieldName)
		lf.Selections = ensureScalar(lf.Selections, endCursorFieldName)
		out[i] = lf
	}
	return out
}

func ensureScalar(sels []ir.Selection, name intern.ID) []ir.Selection {
	if findSelection(sels, name) != nil {
		return sels
	}
	return append(sels, ir.ScalarField{Name: name})
}
