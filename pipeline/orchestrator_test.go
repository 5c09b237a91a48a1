package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/queryc/intern"
)

func TestBuild_FullBuildProducesAllFourProgramsAndSourceHashes(t *testing.T) {
	s := testSchema(t)
	src := `query Q { viewer { id name } }`
	proj := &Project{
		Name:   "app",
		Schema: s,
		Sources: []SourceFile{
			{FileKey: intern.Intern("app.graphql"), Text: []byte(src)},
		},
	}

	out, err := Build(&BuildRequest{Project: proj})
	require.NoError(t, err)
	require.NotNil(t, out)
	require.False(t, out.Errors.HasErrors(), out.Errors.Report())

	require.NotNil(t, out.Programs.Source)
	require.NotNil(t, out.Programs.Normalization)
	require.NotNil(t, out.Programs.Reader)
	require.NotNil(t, out.Programs.OperationText)
	require.NotNil(t, out.Programs.Typegen)

	_, ok := out.Programs.Normalization.Operation(intern.Intern("Q"))
	assert.True(t, ok)

	assert.Contains(t, out.SourceHashes, "Q")
	assert.NotEmpty(t, out.SourceHashes["Q"])
	assert.Nil(t, out.Affected)
}

func TestBuild_WithBaseProjectMarksBaseFragmentsAndMergesClosure(t *testing.T) {
	s := testSchema(t)
	baseSrc := `fragment UserFields on User { id name }`
	projSrc := `query Q { viewer { ...UserFields } }`

	base := &Project{
		Name:   "base",
		Schema: s,
		Sources: []SourceFile{
			{FileKey: intern.Intern("base.graphql"), Text: []byte(baseSrc)},
		},
	}
	proj := &Project{
		Name:   "app",
		Schema: s,
		Sources: []SourceFile{
			{FileKey: intern.Intern("app.graphql"), Text: []byte(projSrc)},
		},
		Base: base,
	}

	out, err := Build(&BuildRequest{Project: proj})
	require.NoError(t, err)
	require.False(t, out.Errors.HasErrors(), out.Errors.Report())

	frag, ok := out.Programs.Source.Fragment(intern.Intern("UserFields"))
	require.True(t, ok)
	assert.True(t, frag.IsBase)

	// The base fragment's own artifact is not re-emitted by the dependent
	// project's pipelines, since Normalization/Reader/OperationText/Typegen
	// all call RemoveBaseFragments as their last step.
	_, normOK := out.Programs.Normalization.Fragment(intern.Intern("UserFields"))
	assert.False(t, normOK)
}

func TestBuild_IncrementalRequestComputesAffectedSet(t *testing.T) {
	s := testSchema(t)
	src := `
		fragment UserFields on User { id name }
		query Q { viewer { ...UserFields } }
	`
	proj := &Project{
		Name:   "app",
		Schema: s,
		Sources: []SourceFile{
			{FileKey: intern.Intern("app.graphql"), Text: []byte(src)},
		},
	}

	out, err := Build(&BuildRequest{
		Project:      proj,
		ChangedNames: map[string]bool{"UserFields": true},
	})
	require.NoError(t, err)
	require.False(t, out.Errors.HasErrors(), out.Errors.Report())
	require.NotNil(t, out.Affected)
	assert.True(t, out.Affected["Q"], "Q spreads the changed fragment and must be marked affected")
}
