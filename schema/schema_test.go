package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/schema"
)

func id(s string) intern.ID { return intern.Intern(s) }

func buildTestSchema() *schema.Schema {
	b := schema.NewBuilder()

	node := &schema.Type{Name: id("Node"), Kind: schema.Interface}
	node.AddField(&schema.FieldDef{Name: id("id"), Type: schema.NewNonNull(schema.NewNamed(id("ID")))})

	user := &schema.Type{Name: id("User"), Kind: schema.Object, Interfaces: []intern.ID{id("Node")}}
	user.AddField(&schema.FieldDef{Name: id("id"), Type: schema.NewNonNull(schema.NewNamed(id("ID")))})
	user.AddField(&schema.FieldDef{Name: id("name"), Type: schema.NewNamed(id("String"))})

	admin := &schema.Type{Name: id("Admin"), Kind: schema.Object, Interfaces: []intern.ID{id("Node")}}
	admin.AddField(&schema.FieldDef{Name: id("id"), Type: schema.NewNonNull(schema.NewNamed(id("ID")))})

	actor := &schema.Type{Name: id("Actor"), Kind: schema.Union, UnionMembers: []intern.ID{id("User"), id("Admin")}}

	query := &schema.Type{Name: id("Query"), Kind: schema.Object}
	query.AddField(&schema.FieldDef{Name: id("viewer"), Type: schema.NewNamed(id("User"))})
	query.AddField(&schema.FieldDef{Name: id("actor"), Type: schema.NewNamed(id("Actor"))})

	b.AddType(node).AddType(user).AddType(admin).AddType(actor).AddType(query)
	b.SetRootTypes(id("Query"), 0, 0)
	return b.Build()
}

func TestSchema_FieldLookup(t *testing.T) {
	s := buildTestSchema()
	f, ok := s.Field(schema.FieldID{Parent: id("User"), Name: id("name")})
	assert.True(t, ok)
	assert.Equal(t, "String", f.Type.String())
}

func TestSchema_IsSubtype_Interface(t *testing.T) {
	s := buildTestSchema()
	assert.True(t, s.IsSubtype(id("Node"), id("User")))
	assert.True(t, s.IsSubtype(id("Node"), id("Admin")))
	assert.False(t, s.IsSubtype(id("User"), id("Admin")))
}

func TestSchema_IsSubtype_Union(t *testing.T) {
	s := buildTestSchema()
	assert.True(t, s.IsSubtype(id("Actor"), id("User")))
	assert.False(t, s.IsSubtype(id("Actor"), id("Node")))
}

func TestSchema_AreOverlapping(t *testing.T) {
	s := buildTestSchema()
	assert.True(t, s.AreOverlapping(id("Node"), id("Actor"))) // share User, Admin
	assert.True(t, s.AreOverlapping(id("User"), id("User")))
}

func TestTypeRef_String(t *testing.T) {
	ref := schema.NewNonNull(schema.NewList(schema.NewNonNull(schema.NewNamed(id("User")))))
	assert.Equal(t, "[User!]!", ref.String())
}

func TestTypeRef_NonNullNonNullCollapses(t *testing.T) {
	inner := schema.NewNonNull(schema.NewNamed(id("User")))
	outer := schema.NewNonNull(inner)
	assert.Same(t, inner, outer)
}

func TestBuiltinExtensionNames_IncludesConnection(t *testing.T) {
	names := schema.BuiltinExtensionNames()
	assert.Contains(t, names, "connection")
	assert.Contains(t, names, "required")
}
