package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/transform/passes"
)

func clientExtensionSchema(t *testing.T) *schema.Schema {
	t.Helper()
	b := schema.NewBuilder()
	user := &schema.Type{Name: intern.Intern("User"), Kind: schema.Object}
	user.AddField(&schema.FieldDef{Name: intern.Intern("name"), Type: schema.NewNamed(intern.Intern("String"))})
	user.AddField(&schema.FieldDef{Name: intern.Intern("isSelected"), Type: schema.NewNamed(intern.Intern("Boolean")), IsExtension: true})
	b.AddType(user)
	query := &schema.Type{Name: intern.Intern("Query"), Kind: schema.Object}
	query.AddField(&schema.FieldDef{Name: intern.Intern("viewer"), Type: schema.NewNamed(intern.Intern("User"))})
	b.AddType(query)
	b.SetRootTypes(intern.Intern("Query"), 0, 0)
	return b.Build()
}

func TestClientExtensions_TagsExtensionFieldWithInternalMarker(t *testing.T) {
	s := clientExtensionSchema(t)
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Type: intern.Intern("Query"),
		Selections: []ir.Selection{
			ir.LinkedField{
				Name: intern.Intern("viewer"),
				Type: schema.NewNamed(intern.Intern("User")),
				Selections: []ir.Selection{
					ir.ScalarField{Name: intern.Intern("name")},
					ir.ScalarField{Name: intern.Intern("isSelected")},
				},
			},
		},
	})

	out := passes.ClientExtensions(p)
	op, _ := out.Operation(intern.Intern("Q"))
	viewer := op.Selections[0].(ir.LinkedField)
	name := viewer.Selections[0].(ir.ScalarField)
	selected := viewer.Selections[1].(ir.ScalarField)
	assert.Len(t, name.Directives, 0)
	require.Len(t, selected.Directives, 1)
	assert.Equal(t, intern.Intern("__clientField"), selected.Directives[0].Name.Value)
}

func TestSkipClientExtensions_DropsMarkedFields(t *testing.T) {
	s := clientExtensionSchema(t)
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Type: intern.Intern("Query"),
		Selections: []ir.Selection{
			ir.LinkedField{
				Name: intern.Intern("viewer"),
				Type: schema.NewNamed(intern.Intern("User")),
				Selections: []ir.Selection{
					ir.ScalarField{Name: intern.Intern("name")},
					ir.ScalarField{
						Name:       intern.Intern("isSelected"),
						Directives: []ir.Directive{{Name: ir.At(intern.Intern("__clientField"), ir.Location{})}},
					},
				},
			},
		},
	})

	out, err := passes.SkipClientExtensions(p)
	require.NoError(t, err)
	op, _ := out.Operation(intern.Intern("Q"))
	viewer := op.Selections[0].(ir.LinkedField)
	require.Len(t, viewer.Selections, 1)
	assert.Equal(t, intern.Intern("name"), viewer.Selections[0].(ir.ScalarField).Name)
}

func TestSkipClientExtensions_CollapsesLinkedFieldLeftEmpty(t *testing.T) {
	s := clientExtensionSchema(t)
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Type: intern.Intern("Query"),
		Selections: []ir.Selection{
			ir.LinkedField{
				Name: intern.Intern("viewer"),
				Type: schema.NewNamed(intern.Intern("User")),
				Selections: []ir.Selection{
					ir.ScalarField{
						Name:       intern.Intern("isSelected"),
						Directives: []ir.Directive{{Name: ir.At(intern.Intern("__clientField"), ir.Location{})}},
					},
				},
			},
		},
	})

	out, err := passes.SkipClientExtensions(p)
	require.NoError(t, err)
	op, _ := out.Operation(intern.Intern("Q"))
	assert.Len(t, op.Selections, 0)
}
