package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/queryc/identity"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
)

func scalar(name, alias string) ir.ScalarField {
	var aliasID intern.ID
	if alias != "" {
		aliasID = intern.Intern(alias)
	}
	return ir.ScalarField{
		Alias: aliasID,
		Name:  intern.Intern(name),
		Type:  schema.NewNamed(intern.Intern("String")),
	}
}

func TestFromSelection_SameScalarSameIdentity(t *testing.T) {
	a := identity.FromSelection(scalar("id", ""))
	b := identity.FromSelection(scalar("id", ""))
	assert.Equal(t, a, b)
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestFromSelection_DifferentAliasDifferentIdentity(t *testing.T) {
	a := identity.FromSelection(scalar("id", ""))
	b := identity.FromSelection(scalar("id", "userId"))
	assert.NotEqual(t, a, b)
}

func TestFromSelection_DifferentArgumentsDifferentIdentity(t *testing.T) {
	f1 := scalar("photo", "")
	f1.Arguments = []ir.Argument{{
		Name:  ir.At(intern.Intern("size"), ir.Location{}),
		Value: ir.At(ir.Value{Kind: ir.VConstant, Const: ir.Constant{Kind: ir.CInt, IntVal: 32}}, ir.Location{}),
	}}
	f2 := scalar("photo", "")
	f2.Arguments = []ir.Argument{{
		Name:  ir.At(intern.Intern("size"), ir.Location{}),
		Value: ir.At(ir.Value{Kind: ir.VConstant, Const: ir.Constant{Kind: ir.CInt, IntVal: 64}}, ir.Location{}),
	}}
	a := identity.FromSelection(f1)
	b := identity.FromSelection(f2)
	assert.NotEqual(t, a, b)
}

func TestFromSelection_InternalDirectivesExcluded(t *testing.T) {
	withInternal := scalar("node", "")
	withInternal.Directives = []ir.Directive{{Name: ir.At(intern.Intern("match"), ir.Location{})}}
	without := scalar("node", "")
	assert.Equal(t, identity.FromSelection(without), identity.FromSelection(withInternal))
}

func TestFromSelection_Condition(t *testing.T) {
	a := identity.FromSelection(ir.Condition{ConditionKind: ir.If, Value: ir.ConditionValue{IsVariable: true, Variable: intern.Intern("x")}})
	b := identity.FromSelection(ir.Condition{ConditionKind: ir.If, Value: ir.ConditionValue{IsVariable: true, Variable: intern.Intern("x")}})
	c := identity.FromSelection(ir.Condition{ConditionKind: ir.Unless, Value: ir.ConditionValue{IsVariable: true, Variable: intern.Intern("x")}})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
