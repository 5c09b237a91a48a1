package redundancy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linked(name string, sels ...ir.Selection) ir.LinkedField {
	return ir.LinkedField{Name: intern.Intern(name), Selections: sels}
}

func scalar(name string) ir.ScalarField {
	return ir.ScalarField{Name: intern.Intern(name)}
}

func TestProcessScopeFrom_DuplicateScalarDropped(t *testing.T) {
	sels := []ir.Selection{scalar("id"), scalar("name"), scalar("id")}
	out, _ := processScopeFrom(NewSelectionMap(), sels, newMemoCache())
	require.Len(t, out, 2)
	assert.Equal(t, "id", intern.Lookup(out[0].(ir.ScalarField).Name))
	assert.Equal(t, "name", intern.Lookup(out[1].(ir.ScalarField).Name))
}

func TestProcessScopeFrom_DuplicateLinkedFieldMergesChildren(t *testing.T) {
	first := ir.LinkedField{
		Name:       intern.Intern("author"),
		Selections: []ir.Selection{scalar("id")},
	}
	second := ir.LinkedField{
		Name:       intern.Intern("author"),
		Selections: []ir.Selection{scalar("id"), scalar("name")},
	}
	sels := []ir.Selection{first, second}
	out, _ := processScopeFrom(NewSelectionMap(), sels, newMemoCache())
	require.Len(t, out, 1)
	merged := out[0].(ir.LinkedField)
	require.Len(t, merged.Selections, 2)
	assert.Equal(t, "id", intern.Lookup(merged.Selections[0].(ir.ScalarField).Name))
	assert.Equal(t, "name", intern.Lookup(merged.Selections[1].(ir.ScalarField).Name))
}

func TestProcessScopeFrom_LinkedFieldEmptyAfterDedupeIsDropped(t *testing.T) {
	first := ir.LinkedField{
		Name:       intern.Intern("author"),
		Selections: []ir.Selection{scalar("id")},
	}
	second := ir.LinkedField{
		Name:       intern.Intern("author"),
		Selections: []ir.Selection{scalar("id")},
	}
	sels := []ir.Selection{first, second}
	out, _ := processScopeFrom(NewSelectionMap(), sels, newMemoCache())
	require.Len(t, out, 1)
	assert.Len(t, out[0].(ir.LinkedField).Selections, 1)
}

func TestProcessScopeFrom_ConditionForksAndDoesNotMaskSibling(t *testing.T) {
	cond := ir.Condition{
		ConditionKind: ir.If,
		Value:         ir.ConditionValue{IsVariable: true, Variable: intern.Intern("cond")},
		Selections:    []ir.Selection{scalar("id")},
	}
	sels := []ir.Selection{scalar("id"), cond}
	out, _ := processScopeFrom(NewSelectionMap(), sels, newMemoCache())
	require.Len(t, out, 1)
	assert.Equal(t, ir.KindScalarField, out[0].Kind())
}

func TestReorderFieldsFirst_ConditionalsLast(t *testing.T) {
	cond := ir.Condition{Value: ir.ConditionValue{IsVariable: true, Variable: intern.Intern("c")}}
	bareFragment := ir.InlineFragment{}
	sels := []ir.Selection{cond, scalar("id"), bareFragment, scalar("name")}
	out := reorderFieldsFirst(sels)
	require.Len(t, out, 4)
	assert.Equal(t, ir.KindScalarField, out[0].Kind())
	assert.Equal(t, ir.KindScalarField, out[1].Kind())
	assert.Equal(t, ir.KindCondition, out[2].Kind())
	assert.Equal(t, ir.KindInlineFragment, out[3].Kind())
}

func TestMemoCache_SharesResultAcrossIdenticalSlicePointer(t *testing.T) {
	sels := []ir.Selection{scalar("id"), scalar("id")}
	cache := newMemoCache()
	out1, m1 := processScopeFrom(NewSelectionMap(), sels, cache)
	out2, m2 := processScopeFrom(NewSelectionMap(), sels, cache)
	assert.Equal(t, out1, out2)
	assert.Same(t, m1, m2)
}

// spec.md §8 scenario S3: a LinkedField reselected inside a non-custom
// InlineFragment fork must have its extra grandchildren merged into the
// field's first occurrence rather than crash or clobber a sibling, since
// the fork only forks the map, not the output slice the first occurrence
// was already appended to.
func TestProcessScopeFrom_LinkedFieldReselectedAcrossInlineFragmentForkMergesGrandchildren(t *testing.T) {
	onAdmin := ir.InlineFragment{
		TypeCondition: intern.Intern("Admin"),
		Selections:    []ir.Selection{linked("a", scalar("bb"), scalar("cc"))},
	}
	sels := []ir.Selection{linked("a", scalar("bb")), onAdmin}

	out, _ := processScopeFrom(NewSelectionMap(), sels, newMemoCache())

	require.Len(t, out, 1)
	a := out[0].(ir.LinkedField)
	require.Len(t, a.Selections, 2)
	assert.Equal(t, "bb", intern.Lookup(a.Selections[0].(ir.ScalarField).Name))
	assert.Equal(t, "cc", intern.Lookup(a.Selections[1].(ir.ScalarField).Name))
}

// The same fork scenario, but nested two forks deep (Condition wrapping an
// InlineFragment), so the owning frame for "a" is two levels up the call
// stack from where "cc" is discovered.
func TestProcessScopeFrom_LinkedFieldReselectedAcrossNestedForksMergesGrandchildren(t *testing.T) {
	nested := ir.Condition{
		ConditionKind: ir.If,
		Value:         ir.ConditionValue{IsVariable: true, Variable: intern.Intern("cond")},
		Selections: []ir.Selection{
			ir.InlineFragment{
				TypeCondition: intern.Intern("Admin"),
				Selections:    []ir.Selection{linked("a", scalar("bb"), scalar("cc"))},
			},
		},
	}
	sels := []ir.Selection{linked("a", scalar("bb")), nested}

	out, _ := processScopeFrom(NewSelectionMap(), sels, newMemoCache())

	require.Len(t, out, 1)
	a := out[0].(ir.LinkedField)
	require.Len(t, a.Selections, 2)
	assert.Equal(t, "bb", intern.Lookup(a.Selections[0].(ir.ScalarField).Name))
	assert.Equal(t, "cc", intern.Lookup(a.Selections[1].(ir.ScalarField).Name))
}

// spec.md §8's round-trip property, named alongside flatten's and
// sort_selections' own "Twice" tests: applying skip_redundant_nodes to an
// already-reduced selection set must return it unchanged.
func TestProcessScopeFrom_TwiceIsIdenticalToOnce(t *testing.T) {
	onAdmin := ir.InlineFragment{
		TypeCondition: intern.Intern("Admin"),
		Selections:    []ir.Selection{linked("a", scalar("bb"), scalar("cc"))},
	}
	sels := []ir.Selection{linked("a", scalar("bb")), onAdmin}

	once, _ := processScopeFrom(NewSelectionMap(), sels, newMemoCache())
	twice, _ := processScopeFrom(NewSelectionMap(), once, newMemoCache())

	assert.Empty(t, cmp.Diff(once, twice))
}
