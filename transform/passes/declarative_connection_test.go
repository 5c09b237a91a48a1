package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	ierrors "github.com/viant/queryc/ir/errors"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/transform/passes"
)

func TestDeclarativeConnection_LowersAppendEdgeOnCompositeField(t *testing.T) {
	s := schema.NewBuilder().Build()
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("M"), ir.Location{}),
		Selections: []ir.Selection{
			ir.LinkedField{
				Name: intern.Intern("newComment"),
				Directives: []ir.Directive{
					{Name: ir.At(intern.Intern("appendEdge"), ir.Location{}), Arguments: []ir.Argument{{
						Name: ir.At(intern.Intern("connections"), ir.Location{}),
						Value: ir.At(ir.Value{Kind: ir.VList, List: []ir.Value{
							{Kind: ir.VConstant, Const: ir.Constant{Kind: ir.CString, StrVal: "client:root:comments"}},
						}}, ir.Location{}),
					}}},
				},
				Selections: []ir.Selection{ir.ScalarField{Name: intern.Intern("node")}},
			},
		},
	})

	out, errs := passes.DeclarativeConnection(p)
	require.False(t, errs.HasErrors())
	op, ok := out.Operation(intern.Intern("M"))
	require.True(t, ok)
	lf := op.Selections[0].(ir.LinkedField)
	require.Len(t, lf.Directives, 1)
	assert.Equal(t, intern.Intern("__declarativeConnection"), lf.Directives[0].Name.Value)
}

func TestDeclarativeConnection_RejectsAppendEdgeOnScalarField(t *testing.T) {
	s := schema.NewBuilder().Build()
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("M"), ir.Location{}),
		Selections: []ir.Selection{
			ir.ScalarField{
				Name: intern.Intern("commentId"),
				Directives: []ir.Directive{
					{Name: ir.At(intern.Intern("appendEdge"), ir.Location{})},
				},
			},
		},
	})

	_, errs := passes.DeclarativeConnection(p)
	require.True(t, errs.HasErrors())
	var found bool
	for _, e := range errs.Errors() {
		if e.Code == ierrors.AppendEdgeUnsupported {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDeclarativeConnection_RejectsDeleteRecordOnCompositeField(t *testing.T) {
	s := schema.NewBuilder().Build()
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("M"), ir.Location{}),
		Selections: []ir.Selection{
			ir.LinkedField{
				Name: intern.Intern("deletedComment"),
				Directives: []ir.Directive{
					{Name: ir.At(intern.Intern("deleteRecord"), ir.Location{})},
				},
				Selections: []ir.Selection{ir.ScalarField{Name: intern.Intern("id")}},
			},
		},
	})

	_, errs := passes.DeclarativeConnection(p)
	require.True(t, errs.HasErrors())
	var found bool
	for _, e := range errs.Errors() {
		if e.Code == ierrors.DeleteRecordUnsupported {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDeclarativeConnection_AcceptsDeleteRecordOnScalarField(t *testing.T) {
	s := schema.NewBuilder().Build()
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("M"), ir.Location{}),
		Selections: []ir.Selection{
			ir.ScalarField{
				Name: intern.Intern("deletedCommentId"),
				Directives: []ir.Directive{
					{Name: ir.At(intern.Intern("deleteRecord"), ir.Location{})},
				},
			},
		},
	})

	out, errs := passes.DeclarativeConnection(p)
	require.False(t, errs.HasErrors())
	op, _ := out.Operation(intern.Intern("M"))
	sf := op.Selections[0].(ir.ScalarField)
	require.Len(t, sf.Directives, 1)
	assert.Equal(t, intern.Intern("__declarativeConnection"), sf.Directives[0].Name.Value)
}
