package intern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/queryc/intern"
)

func TestIntern_SameStringSameID(t *testing.T) {
	intern.Reset()
	a := intern.Intern("viewer")
	b := intern.Intern("viewer")
	assert.Equal(t, a, b)
}

func TestIntern_DifferentStringsDifferentIDs(t *testing.T) {
	intern.Reset()
	a := intern.Intern("viewer")
	b := intern.Intern("node")
	assert.NotEqual(t, a, b)
}

func TestIntern_LookupRoundTrips(t *testing.T) {
	intern.Reset()
	id := intern.Intern("FragmentName")
	assert.Equal(t, "FragmentName", intern.Lookup(id))
}

func TestIntern_Ordering(t *testing.T) {
	intern.Reset()
	a := intern.Intern("a")
	b := intern.Intern("b")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}
