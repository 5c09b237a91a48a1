package printer

import (
	"testing"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/stretchr/testify/assert"
)

func TestOperation_RendersQueryWithNestedField(t *testing.T) {
	op := &ir.OperationDefinition{
		OperationKind: ir.Query,
		Name:          ir.At(intern.Intern("Viewer"), ir.Location{}),
		Selections: []ir.Selection{
			ir.LinkedField{
				Name: intern.Intern("viewer"),
				Selections: []ir.Selection{
					ir.ScalarField{Name: intern.Intern("id")},
				},
			},
		},
	}
	out := Operation(op)
	assert.Contains(t, out, "query Viewer")
	assert.Contains(t, out, "viewer {")
	assert.Contains(t, out, "id")
}

func TestFragment_RendersFragmentOnType(t *testing.T) {
	f := &ir.FragmentDefinition{
		Name:          ir.At(intern.Intern("UserFields"), ir.Location{}),
		TypeCondition: intern.Intern("User"),
		Selections: []ir.Selection{
			ir.ScalarField{Name: intern.Intern("name")},
		},
	}
	out := Fragment(f)
	assert.Contains(t, out, "fragment UserFields on User")
	assert.Contains(t, out, "name")
}
