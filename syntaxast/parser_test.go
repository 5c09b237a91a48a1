package syntaxast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/queryc/syntaxast"
)

func TestParse_SimpleQuery(t *testing.T) {
	doc, err := syntaxast.Parse([]byte(`query UserQuery($id: ID!) {
		node(id: $id) {
			id
			... on User @include(if: true) {
				name
			}
		}
	}`))
	require.NoError(t, err)
	require.Len(t, doc.Definitions, 1)
	op, ok := doc.Definitions[0].(*syntaxast.OperationDefinition)
	require.True(t, ok)
	assert.Equal(t, "query", op.OperationKind)
	assert.Equal(t, "UserQuery", op.Name)
	require.Len(t, op.VariableDefinitions, 1)
	assert.Equal(t, "id", op.VariableDefinitions[0].Name)
	require.Len(t, op.SelectionSet, 1)
	field := op.SelectionSet[0].(*syntaxast.Field)
	assert.Equal(t, "node", field.Name)
	require.Len(t, field.SelectionSet, 2)
}

func TestParse_FragmentWithAlias(t *testing.T) {
	doc, err := syntaxast.Parse([]byte(`fragment F on User {
		avatar: profilePicture(size: 128)
	}`))
	require.NoError(t, err)
	frag := doc.Definitions[0].(*syntaxast.FragmentDefinition)
	assert.Equal(t, "F", frag.Name)
	assert.Equal(t, "User", frag.TypeCondition)
	field := frag.SelectionSet[0].(*syntaxast.Field)
	assert.Equal(t, "avatar", field.Alias)
	assert.Equal(t, "profilePicture", field.Name)
	require.Len(t, field.Arguments, 1)
	assert.Equal(t, "size", field.Arguments[0].Name)
	assert.Equal(t, int64(128), field.Arguments[0].Value.IntVal)
}

func TestParse_FragmentSpreadAndDirective(t *testing.T) {
	doc, err := syntaxast.Parse([]byte(`fragment F on User {
		...OtherFragment @module(name: "Foo.react")
	}`))
	require.NoError(t, err)
	frag := doc.Definitions[0].(*syntaxast.FragmentDefinition)
	spread := frag.SelectionSet[0].(*syntaxast.FragmentSpread)
	assert.Equal(t, "OtherFragment", spread.Name)
	require.Len(t, spread.Directives, 1)
	assert.Equal(t, "module", spread.Directives[0].Name)
}

func TestParse_ListAndObjectValues(t *testing.T) {
	doc, err := syntaxast.Parse([]byte(`query Q {
		field(ids: [1, 2, 3], filter: {active: true, tag: null})
	}`))
	require.NoError(t, err)
	op := doc.Definitions[0].(*syntaxast.OperationDefinition)
	field := op.SelectionSet[0].(*syntaxast.Field)
	require.Len(t, field.Arguments, 2)
	assert.Equal(t, syntaxast.ValList, field.Arguments[0].Value.Kind)
	assert.Len(t, field.Arguments[0].Value.List, 3)
	assert.Equal(t, syntaxast.ValObject, field.Arguments[1].Value.Kind)
	assert.Len(t, field.Arguments[1].Value.Object, 2)
}
