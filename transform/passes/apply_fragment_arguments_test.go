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

func TestApplyFragmentArguments_SpecializesSpreadWithArguments(t *testing.T) {
	s := schema.NewBuilder().Build()
	p := ir.NewProgram(s)
	p.PutFragment(&ir.FragmentDefinition{
		Name:          ir.At(intern.Intern("Avatar"), ir.Location{}),
		TypeCondition: intern.Intern("User"),
		Selections: []ir.Selection{
			ir.ScalarField{
				Name: intern.Intern("picture"),
				Arguments: []ir.Argument{{
					Name:  ir.At(intern.Intern("size"), ir.Location{}),
					Value: ir.At(ir.Value{Kind: ir.VVariable, VarName: intern.Intern("size")}, ir.Location{}),
				}},
			},
		},
	})
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Selections: []ir.Selection{
			ir.FragmentSpread{
				FragmentName: intern.Intern("Avatar"),
				Arguments: []ir.Argument{{
					Name:  ir.At(intern.Intern("size"), ir.Location{}),
					Value: ir.At(ir.Value{Kind: ir.VConstant, Const: ir.Constant{Kind: ir.CInt, IntVal: 100}}, ir.Location{}),
				}},
			},
		},
	})

	out := passes.ApplyFragmentArguments(p)
	op, ok := out.Operation(intern.Intern("Q"))
	require.True(t, ok)
	spread, ok := op.Selections[0].(ir.FragmentSpread)
	require.True(t, ok)
	assert.Len(t, spread.Arguments, 0)
	assert.NotEqual(t, intern.Intern("Avatar"), spread.FragmentName)

	specialized, ok := out.Fragment(spread.FragmentName)
	require.True(t, ok)
	picture := specialized.Selections[0].(ir.ScalarField)
	require.Len(t, picture.Arguments, 1)
	assert.Equal(t, ir.VConstant, picture.Arguments[0].Value.Value.Kind)
	assert.Equal(t, int64(100), picture.Arguments[0].Value.Value.Const.IntVal)
}

func TestApplyFragmentArguments_LeavesUnparameterizedSpreadsUntouched(t *testing.T) {
	s := schema.NewBuilder().Build()
	p := ir.NewProgram(s)
	p.PutFragment(&ir.FragmentDefinition{
		Name:          ir.At(intern.Intern("Avatar"), ir.Location{}),
		TypeCondition: intern.Intern("User"),
		Selections:    []ir.Selection{ir.ScalarField{Name: intern.Intern("picture")}},
	})
	p.PutOperation(&ir.OperationDefinition{
		Name:       ir.At(intern.Intern("Q"), ir.Location{}),
		Selections: []ir.Selection{ir.FragmentSpread{FragmentName: intern.Intern("Avatar")}},
	})

	out := passes.ApplyFragmentArguments(p)
	op, _ := out.Operation(intern.Intern("Q"))
	spread := op.Selections[0].(ir.FragmentSpread)
	assert.Equal(t, intern.Intern("Avatar"), spread.FragmentName)
}
