package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

const manifest = `
projects:
  - name: app
    schemaFiles: ["schema.graphql"]
    sourceRoots: ["src"]
    base: shared
    persist:
      url: https://example.test/persist
      params:
        source: queryc
  - name: shared
    schemaFiles: ["schema.graphql"]
    sourceRoots: ["shared-src"]
`

func TestLoad_ParsesProjectsAndResolvesBase(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "queryc.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0644))

	ws, err := Load(context.Background(), afs.New(), manifestPath)
	require.NoError(t, err)
	require.Len(t, ws.Projects, 2)

	byName, err := ws.ByName()
	require.NoError(t, err)
	app := byName["app"]
	require.NotNil(t, app)
	assert.Equal(t, []string{"schema.graphql"}, app.SchemaFiles)
	assert.Equal(t, "https://example.test/persist", app.Persist.URL)

	base, err := ws.BaseOf(app)
	require.NoError(t, err)
	require.NotNil(t, base)
	assert.Equal(t, "shared", base.Name)

	shared := byName["shared"]
	noBase, err := ws.BaseOf(shared)
	require.NoError(t, err)
	assert.Nil(t, noBase)
}

func TestWorkspace_ByName_DuplicateIsError(t *testing.T) {
	ws := &Workspace{Projects: []*ProjectConfig{{Name: "a"}, {Name: "a"}}}
	_, err := ws.ByName()
	assert.Error(t, err)
}

func TestWorkspace_BaseOf_UnknownBaseIsError(t *testing.T) {
	ws := &Workspace{Projects: []*ProjectConfig{{Name: "a", Base: "missing"}}}
	_, err := ws.BaseOf(ws.Projects[0])
	assert.Error(t, err)
}

func TestModulePath_FindsEnclosingGoMod(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.test/app\n\ngo 1.23\n"), 0644))
	sub := filepath.Join(dir, "nested", "project")
	require.NoError(t, os.MkdirAll(sub, 0755))

	path, err := ModulePath(sub)
	require.NoError(t, err)
	assert.Equal(t, "example.test/app", path)
}

func TestModulePath_NoGoModIsEmptyNotError(t *testing.T) {
	dir := t.TempDir()
	path, err := ModulePath(dir)
	require.NoError(t, err)
	assert.Equal(t, "", path)
}
