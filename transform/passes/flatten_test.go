package passes_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/transform/passes"
)

func flattenTestSchema(t *testing.T) *schema.Schema {
	t.Helper()
	b := schema.NewBuilder()
	b.AddType(&schema.Type{Name: intern.Intern("User"), Kind: schema.Object})
	b.AddType(&schema.Type{Name: intern.Intern("Query"), Kind: schema.Object})
	b.SetRootTypes(intern.Intern("Query"), 0, 0)
	return b.Build()
}

func TestFlatten_InlinesFragmentMatchingParentType(t *testing.T) {
	s := flattenTestSchema(t)
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Type: intern.Intern("User"),
		Selections: []ir.Selection{
			ir.InlineFragment{
				TypeCondition: intern.Intern("User"),
				Selections:    []ir.Selection{ir.ScalarField{Name: intern.Intern("name")}},
			},
		},
	})

	out := passes.Flatten(p, false)
	op, ok := out.Operation(intern.Intern("Q"))
	require.True(t, ok)
	require.Len(t, op.Selections, 1)
	assert.Equal(t, intern.Intern("name"), op.Selections[0].(ir.ScalarField).Name)
}

func TestFlatten_KeepsFragmentCarryingDirective(t *testing.T) {
	s := flattenTestSchema(t)
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Type: intern.Intern("User"),
		Selections: []ir.Selection{
			ir.InlineFragment{
				TypeCondition: intern.Intern("User"),
				Directives:    []ir.Directive{{Name: ir.At(intern.Intern("defer"), ir.Location{})}},
				Selections:    []ir.Selection{ir.ScalarField{Name: intern.Intern("name")}},
			},
		},
	})

	out := passes.Flatten(p, false)
	op, _ := out.Operation(intern.Intern("Q"))
	require.Len(t, op.Selections, 1)
	_, ok := op.Selections[0].(ir.InlineFragment)
	assert.True(t, ok)
}

func TestFlatten_IsIdempotent(t *testing.T) {
	s := flattenTestSchema(t)
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Type: intern.Intern("User"),
		Selections: []ir.Selection{
			ir.InlineFragment{
				TypeCondition: intern.Intern("User"),
				Selections:    []ir.Selection{ir.ScalarField{Name: intern.Intern("name")}},
			},
		},
	})

	once := passes.Flatten(p, false)
	twice := passes.Flatten(once, false)

	opOnce, _ := once.Operation(intern.Intern("Q"))
	opTwice, _ := twice.Operation(intern.Intern("Q"))
	assert.Empty(t, cmp.Diff(opOnce.Selections, opTwice.Selections), "flatten must be a fixed point once applied")
}
