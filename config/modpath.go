package config

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ModulePath resolves the Go module path that owns root, by walking
// upward for a go.mod the same way the teacher's inspector/repository
// locates a project root, then reading Project.GoModule's Module.Mod.Path
// off it. A query project that doesn't live inside a Go module (the
// common case for a standalone client-query repo) returns "", nil rather
// than an error. It is informational only: nothing outside its tests
// calls it (cmd/queryc defaults the artifact output path to
// <root>/__generated__ by itself), and the core pipeline never needs it.
func ModulePath(root string) (string, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("config: resolve module path: %w", err)
	}
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if data, err := os.ReadFile(goModPath); err == nil {
			mf, err := modfile.Parse(goModPath, data, nil)
			if err != nil {
				return "", fmt.Errorf("config: parse %s: %w", goModPath, err)
			}
			if mf.Module != nil {
				return mf.Module.Mod.Path, nil
			}
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
