package passes

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
)

var internalClientFieldName = intern.Intern("__clientField")

// ClientExtensions tags every selection whose field was declared only in
// the built-in extensions document (`schema.FieldDef.IsExtension`) with an
// internal `__clientField` marker directive, so later passes (identity,
// skip_client_extensions) can recognize "this selection has no server-side
// counterpart" without re-querying the schema (spec.md §4.6
// "client_extensions"; it runs early in Normalization so every later pass
// sees the marker already in place).
func ClientExtensions(program *ir.Program) *ir.Program {
	out := ir.NewProgram(program.Schema)
	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		clone := *op
		clone.Selections = tagClientExtensions(program.Schema, op.Type, op.Selections)
		out.PutOperation(&clone)
	}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		clone := *f
		clone.Selections = tagClientExtensions(program.Schema, f.TypeCondition, f.Selections)
		out.PutFragment(&clone)
	}
	return out
}

func tagClientExtensions(s *schema.Schema, scopeType intern.ID, sels []ir.Selection) []ir.Selection {
	out := make([]ir.Selection, len(sels))
	for i, sel := range sels {
		switch v := sel.(type) {
		case ir.ScalarField:
			if isExtensionField(s, scopeType, v.Name) {
				v.Directives = withClientFieldMarker(v.Directives, v.Loc)
			}
			out[i] = v
		case ir.LinkedField:
			if isExtensionField(s, scopeType, v.Name) {
				v.Directives = withClientFieldMarker(v.Directives, v.Loc)
			}
			v.Selections = tagClientExtensions(s, v.Type.InnerNamed(), v.Selections)
			out[i] = v
		case ir.InlineFragment:
			scope := scopeType
			if v.TypeCondition != 0 {
				scope = v.TypeCondition
			}
			v.Selections = tagClientExtensions(s, scope, v.Selections)
			out[i] = v
		case ir.Condition:
			v.Selections = tagClientExtensions(s, scopeType, v.Selections)
			out[i] = v
		default:
			out[i] = sel
		}
	}
	return out
}

func isExtensionField(s *schema.Schema, scopeType intern.ID, fieldName intern.ID) bool {
	t, ok := s.TypeByName(scopeType)
	if !ok {
		return false
	}
	fd, ok := t.FieldByName(fieldName)
	if !ok {
		return false
	}
	return fd.IsExtension
}

func withClientFieldMarker(dirs []ir.Directive, loc ir.Location) []ir.Directive {
	if hasDirective(dirs, internalClientFieldName) {
		return dirs
	}
	return append(append([]ir.Directive{}, dirs...), ir.Directive{
		Name: ir.At(internalClientFieldName, loc),
	})
}
