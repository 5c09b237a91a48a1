package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/ir/build"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/syntaxast"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	b := schema.NewBuilder()

	stringType := &schema.Type{Name: intern.Intern("String"), Kind: schema.Scalar}
	idType := &schema.Type{Name: intern.Intern("ID"), Kind: schema.Scalar}
	b.AddType(stringType)
	b.AddType(idType)

	idField := &schema.FieldDef{Name: intern.Intern("id"), Type: schema.NewNonNull(schema.NewNamed(intern.Intern("ID")))}
	nameField := &schema.FieldDef{Name: intern.Intern("name"), Type: schema.NewNamed(intern.Intern("String"))}

	userType := &schema.Type{Name: intern.Intern("User"), Kind: schema.Object}
	userType.AddField(idField)
	userType.AddField(nameField)
	b.AddType(userType)

	viewerField := &schema.FieldDef{Name: intern.Intern("viewer"), Type: schema.NewNamed(intern.Intern("User"))}
	queryType := &schema.Type{Name: intern.Intern("Query"), Kind: schema.Object}
	queryType.AddField(viewerField)
	b.AddType(queryType)
	b.SetRootTypes(intern.Intern("Query"), 0, 0)

	return b.Build()
}

func buildProgram(t *testing.T, s *schema.Schema, src string) *ir.Program {
	t.Helper()
	doc, err := syntaxast.Parse([]byte(src))
	require.NoError(t, err)
	fileKey := intern.Intern("pipeline_test.graphql")
	program, errs := build.Build(s, map[intern.ID]*syntaxast.Document{fileKey: doc})
	require.False(t, errs.HasErrors(), errs.Report())
	return program
}

func TestNormalization_DedupesDuplicateScalarAndSkipsTypenameOnConcreteObject(t *testing.T) {
	s := testSchema(t)
	program := buildProgram(t, s, `query Q { viewer { name name id } }`)

	out, err := Normalization(program)
	require.NoError(t, err)

	op, ok := out.Operation(intern.Intern("Q"))
	require.True(t, ok)
	viewer := op.Selections[0].(ir.LinkedField)

	var names []string
	for _, sel := range viewer.Selections {
		sf := sel.(ir.ScalarField)
		names = append(names, intern.Lookup(sf.Name))
	}
	assert.NotContains(t, names, "__typename", "User is a concrete object, so Normalization does not insert __typename")
	count := 0
	for _, n := range names {
		if n == "name" {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate scalar should be deduped: %v", names)
}

func TestReader_ForcesTypenameEvenOnConcreteObject(t *testing.T) {
	s := testSchema(t)
	program := buildProgram(t, s, `query Q { viewer { id } }`)

	out, err := Reader(program)
	require.NoError(t, err)

	op, ok := out.Operation(intern.Intern("Q"))
	require.True(t, ok)
	viewer := op.Selections[0].(ir.LinkedField)

	found := false
	for _, sel := range viewer.Selections {
		if sf, ok := sel.(ir.ScalarField); ok && intern.Lookup(sf.Name) == "__typename" {
			found = true
		}
	}
	assert.True(t, found, "Reader must force __typename on every composite scope")
}

func TestOperationText_KeepsOperation(t *testing.T) {
	s := testSchema(t)
	program := buildProgram(t, s, `query Q { viewer { id name } }`)

	out, err := OperationText(program)
	require.NoError(t, err)
	_, ok := out.Operation(intern.Intern("Q"))
	require.True(t, ok)
}

func TestTypegen_ReturnsRequiredFieldsAlongsideProgram(t *testing.T) {
	s := testSchema(t)
	program := buildProgram(t, s, `query Q { viewer { id name } }`)

	result, err := Typegen(program)
	require.NoError(t, err)
	require.NotNil(t, result.Program)
	_, ok := result.Program.Operation(intern.Intern("Q"))
	require.True(t, ok)
}

func TestPreparedFork_ReturnsProgramAndEmptyErrorListWhenValid(t *testing.T) {
	s := testSchema(t)
	program := buildProgram(t, s, `query Q { viewer { id name } }`)

	prepared, errs := PreparedFork(program)
	require.NotNil(t, prepared)
	require.NotNil(t, errs)
	assert.False(t, errs.HasErrors())
}
