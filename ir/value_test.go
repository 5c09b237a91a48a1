package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
)

func TestArgumentsString_SortsByName(t *testing.T) {
	args := []ir.Argument{
		{Name: ir.At(intern.Intern("b"), ir.Location{}), Value: ir.At(ir.Value{Kind: ir.VConstant, Const: ir.Constant{Kind: ir.CInt, IntVal: 2}}, ir.Location{})},
		{Name: ir.At(intern.Intern("a"), ir.Location{}), Value: ir.At(ir.Value{Kind: ir.VConstant, Const: ir.Constant{Kind: ir.CInt, IntVal: 1}}, ir.Location{})},
	}
	assert.Equal(t, "{a:1,b:2}", ir.ArgumentsString(args))
}

func TestValueString_Variable(t *testing.T) {
	v := ir.Value{Kind: ir.VVariable, VarName: intern.Intern("id")}
	assert.Equal(t, "$id", ir.ValueString(v))
}

func TestConstant_Equal_IgnoresObjectFieldOrder(t *testing.T) {
	a := ir.Constant{Kind: ir.CObject, Object: []ir.ObjectField{
		{Name: intern.Intern("x"), Value: ir.Constant{Kind: ir.CInt, IntVal: 1}},
		{Name: intern.Intern("y"), Value: ir.Constant{Kind: ir.CInt, IntVal: 2}},
	}}
	b := ir.Constant{Kind: ir.CObject, Object: []ir.ObjectField{
		{Name: intern.Intern("y"), Value: ir.Constant{Kind: ir.CInt, IntVal: 2}},
		{Name: intern.Intern("x"), Value: ir.Constant{Kind: ir.CInt, IntVal: 1}},
	}}
	assert.True(t, a.Equal(b))
}

func TestDirective_IsInternal(t *testing.T) {
	moduleDirective := ir.Directive{Name: ir.At(intern.Intern("module"), ir.Location{})}
	userDirective := ir.Directive{Name: ir.At(intern.Intern("myCustomDirective"), ir.Location{})}
	assert.True(t, moduleDirective.IsInternal())
	assert.False(t, userDirective.IsInternal())
}

func TestUserDirectives_FiltersInternal(t *testing.T) {
	directives := []ir.Directive{
		{Name: ir.At(intern.Intern("connection"), ir.Location{})},
		{Name: ir.At(intern.Intern("myCustomDirective2"), ir.Location{})},
	}
	out := ir.UserDirectives(directives)
	assert.Len(t, out, 1)
	assert.Equal(t, "myCustomDirective2", intern.Lookup(out[0].Name.Value))
}

func TestSourceHash_Deterministic(t *testing.T) {
	a := ir.SourceHash("fragment F on User { id }")
	b := ir.SourceHash("fragment F on User { id }")
	c := ir.SourceHash("fragment F on User { id name }")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

func TestFastHash64_Deterministic(t *testing.T) {
	a, err := ir.FastHash64([]byte("ScalarField:id"))
	assert.NoError(t, err)
	b, err := ir.FastHash64([]byte("ScalarField:id"))
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}
