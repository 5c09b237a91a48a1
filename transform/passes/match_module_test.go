package passes_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/transform/passes"
)

func TestMatchModule_EncodesBranchesAsInternalMetadataDirective(t *testing.T) {
	s := schema.NewBuilder().Build()
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Selections: []ir.Selection{
			ir.LinkedField{
				Name: intern.Intern("node"),
				Type: schema.NewNamed(intern.Intern("Entity")),
				Directives: []ir.Directive{
					{Name: ir.At(intern.Intern("match"), ir.Location{})},
				},
				Selections: []ir.Selection{
					ir.InlineFragment{
						TypeCondition: intern.Intern("Story"),
						Directives: []ir.Directive{{
							Name: ir.At(intern.Intern("module"), ir.Location{}),
							Arguments: []ir.Argument{{
								Name: ir.At(intern.Intern("name"), ir.Location{}),
								Value: ir.At(ir.Value{Kind: ir.VConstant, Const: ir.Constant{Kind: ir.CString, StrVal: "StoryComponent"}}, ir.Location{}),
							}},
						}},
						Selections: []ir.Selection{
							ir.FragmentSpread{FragmentName: intern.Intern("StoryFragment")},
						},
					},
				},
			},
		},
	})

	out, err := passes.MatchModule(p)
	require.NoError(t, err)
	op, _ := out.Operation(intern.Intern("Q"))
	lf := op.Selections[0].(ir.LinkedField)
	require.Len(t, lf.Directives, 1)
	assert.Equal(t, intern.Intern("__dataDrivenDependencyMetadata"), lf.Directives[0].Name.Value)

	val := lf.Directives[0].Arguments[0].Value.Value.Const.StrVal
	assert.True(t, strings.Contains(val, `"Story":{"component":"StoryComponent","fragment":"StoryFragment"}`))
	assert.True(t, strings.Contains(val, `"plural":false`))
}

func TestMatchModule_MarksPluralWhenFieldIsList(t *testing.T) {
	s := schema.NewBuilder().Build()
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Selections: []ir.Selection{
			ir.LinkedField{
				Name:       intern.Intern("nodes"),
				Type:       schema.NewList(schema.NewNamed(intern.Intern("Entity"))),
				Directives: []ir.Directive{{Name: ir.At(intern.Intern("match"), ir.Location{})}},
				Selections: []ir.Selection{
					ir.InlineFragment{
						TypeCondition: intern.Intern("Story"),
						Directives:    []ir.Directive{{Name: ir.At(intern.Intern("module"), ir.Location{})}},
						Selections:    []ir.Selection{ir.FragmentSpread{FragmentName: intern.Intern("StoryFragment")}},
					},
				},
			},
		},
	})

	out, err := passes.MatchModule(p)
	require.NoError(t, err)
	op, _ := out.Operation(intern.Intern("Q"))
	lf := op.Selections[0].(ir.LinkedField)
	val := lf.Directives[0].Arguments[0].Value.Value.Const.StrVal
	assert.True(t, strings.Contains(val, `"plural":true`))
}

func TestMatchModule_LeavesFieldWithoutMatchDirectiveUntouched(t *testing.T) {
	s := schema.NewBuilder().Build()
	p := ir.NewProgram(s)
	p.PutOperation(&ir.OperationDefinition{
		Name: ir.At(intern.Intern("Q"), ir.Location{}),
		Selections: []ir.Selection{
			ir.LinkedField{
				Name:       intern.Intern("viewer"),
				Type:       schema.NewNamed(intern.Intern("User")),
				Selections: []ir.Selection{ir.ScalarField{Name: intern.Intern("id")}},
			},
		},
	})

	out, err := passes.MatchModule(p)
	require.NoError(t, err)
	op, _ := out.Operation(intern.Intern("Q"))
	lf := op.Selections[0].(ir.LinkedField)
	assert.Len(t, lf.Directives, 0)
}
