package passes

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/transform"
)

// nodeInterfaceName is the global refetch interface generate_id_field
// looks for, mirroring Relay's `Node { id: ID! }` convention.
const nodeInterfaceName = "Node"

// GenerateIDField injects an `id` selection into every linked field whose
// type implements the global Node interface or otherwise exposes a
// unique, non-null `id: ID` field, when the selection doesn't already
// request it (spec.md §4.6 "generate_id_field").
func GenerateIDField(program *ir.Program) (*ir.Program, error) {
	return transform.Run(program, &transform.NodeVisitor{
		VisitLinkedField: func(d *transform.Dispatcher, f ir.LinkedField) transform.Transformed[ir.Selection] {
			base := d.DefaultLinkedField(f)
			lf, outcome, carry := resolveLinkedField(base, f)
			if outcome == transform.Delete {
				return base
			}
			innerNamed := lf.Type.InnerNamed()
			typ, ok := d.Schema.TypeByName(innerNamed)
			if !ok || !exposesUniqueID(d.Schema, typ) || hasIDSelection(lf.Selections) {
				return carry
			}
			idField := ir.ScalarField{
				Name: intern.Intern("id"),
				Type: schema.NewNonNull(schema.NewNamed(intern.Intern("ID"))),
			}
			lf.Selections = append([]ir.Selection{idField}, lf.Selections...)
			return transform.Replaced[ir.Selection](lf)
		},
	})
}

// resolveLinkedField normalizes a Transformed[ir.Selection] produced by
// DefaultLinkedField back into a concrete LinkedField value, the outcome
// that produced it, and the Transformed to return unchanged if no further
// rewrite is needed.
func resolveLinkedField(t transform.Transformed[ir.Selection], fallback ir.LinkedField) (ir.LinkedField, transform.Outcome, transform.Transformed[ir.Selection]) {
	switch t.Outcome {
	case transform.Replace:
		return t.Value.(ir.LinkedField), transform.Replace, t
	case transform.Delete:
		return ir.LinkedField{}, transform.Delete, t
	default:
		return fallback, transform.Keep, t
	}
}

func hasIDSelection(sels []ir.Selection) bool {
	idName := intern.Intern("id")
	for _, s := range sels {
		if sf, ok := s.(ir.ScalarField); ok && sf.Alias == 0 && sf.Name == idName {
			return true
		}
	}
	return false
}

func exposesUniqueID(s *schema.Schema, t *schema.Type) bool {
	if !t.Kind.IsComposite() {
		return false
	}
	if t.Kind == schema.Interface || t.Kind == schema.Object {
		for _, iface := range t.Interfaces {
			if intern.Lookup(iface) == nodeInterfaceName {
				return true
			}
		}
	}
	fd, ok := t.FieldByName(intern.Intern("id"))
	if !ok {
		return false
	}
	return fd.Type != nil && fd.Type.IsNonNull() && intern.Lookup(fd.Type.InnerNamed()) == "ID"
}
