package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/queryc/config"
)

func TestDiscoverSources_WalksSourceRootsForQueryFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.graphql"), []byte("query A { id }"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "nested", "b.gql"), []byte("query B { id }"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "readme.md"), []byte("not a query"), 0644))

	cfg := &config.ProjectConfig{Name: "app", Root: root, SourceRoots: []string{"src"}}
	sources, err := discoverSources(cfg)
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}

func TestReadSchemaFiles_ReadsRelativeToRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "schema.graphql"), []byte("type Query { viewer: Viewer }"), 0644))

	cfg := &config.ProjectConfig{Name: "app", Root: root, SchemaFiles: []string{"schema.graphql"}}
	texts, err := readSchemaFiles(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(texts["schema.graphql"]), "type Query")
}

func TestRunCompile_FailsWithoutSchemaLoader(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "schema.graphql"), []byte("type Query { viewer: Viewer }"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.graphql"), []byte("query A { id }"), 0644))

	manifestPath := filepath.Join(root, "queryc.yaml")
	manifest := "projects:\n  - name: app\n    schemaFiles: [\"schema.graphql\"]\n    sourceRoots: [\"src\"]\n"
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0644))

	err := runCompile(nil, manifestPath, "app", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema-language parsing is an external collaborator")
}

func TestRunCompile_RequiresProjectFlag(t *testing.T) {
	err := runCompile(nil, "queryc.yaml", "", "")
	assert.Error(t, err)
}
