package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/queryc/artifact"
	"github.com/viant/queryc/config"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/persist"
	"github.com/viant/queryc/pipeline"
	"github.com/viant/queryc/schema"
	"go.uber.org/zap"
)

// sourceExtensions are the file suffixes discovery treats as query
// documents. Source discovery is itself an external collaborator per
// spec.md §1 ("source-file discovery and watching"); this walk is the
// CLI's own minimal shim so `compile` has something real to hand the
// orchestrator, not a stand-in for the full watch-mode discovery system.
var sourceExtensions = []string{".graphql", ".gql"}

// schemaBuilder constructs a *schema.Schema for one project's combined
// schema-file text. Schema-language parsing is out of core scope (spec.md
// §1); this CLI never implements an SDL parser, so the default here
// fails loudly rather than silently compiling against an empty schema.
// An embedding tool links its own SDL parser in by replacing this
// variable before calling rootCmd().Execute().
var schemaBuilder = func(projectName string, schemaFiles map[string][]byte) (*schema.Schema, error) {
	return nil, fmt.Errorf("queryc: no schema loader configured for project %q; schema-language parsing is an external collaborator (spec.md §1) — link one in by setting schemaBuilder", projectName)
}

func compileCmd() *cobra.Command {
	var manifestPath string
	var projectName string
	var outputOverride string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Build one project from a workspace manifest and write its artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), manifestPath, projectName, outputOverride)
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "queryc.yaml", "path to the workspace manifest")
	cmd.Flags().StringVar(&projectName, "project", "", "project to build (required)")
	cmd.Flags().StringVar(&outputOverride, "output", "", "override the project's configured output directory")
	return cmd
}

func runCompile(ctx context.Context, manifestPath, projectName, outputOverride string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if projectName == "" {
		return fmt.Errorf("queryc: --project is required")
	}

	fs := afs.New()
	ws, err := config.Load(ctx, fs, manifestPath)
	if err != nil {
		return err
	}
	byName, err := ws.ByName()
	if err != nil {
		return err
	}
	cfg, ok := byName[projectName]
	if !ok {
		return fmt.Errorf("queryc: project %q not found in %s", projectName, manifestPath)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("queryc: build logger: %w", err)
	}
	defer logger.Sync()

	proj, err := loadProject(ctx, ws, cfg, logger)
	if err != nil {
		return err
	}

	out, err := pipeline.Build(&pipeline.BuildRequest{Project: proj, Logger: logger})
	if err != nil {
		return err
	}
	if out.Errors != nil && out.Errors.HasErrors() {
		return fmt.Errorf("queryc: project %q failed validation:\n%s", projectName, out.Errors.Report())
	}

	artifacts, err := artifact.BuildAll(&out.Programs, persist.Disabled{}, persistParams(cfg))
	if err != nil {
		return err
	}

	outputDir := cfg.Output
	if outputOverride != "" {
		outputDir = outputOverride
	}
	if outputDir == "" {
		outputDir = filepath.Join(cfg.Root, "__generated__")
	}
	writer := artifact.NewWriter(outputDir)
	if err := writer.WriteAll(ctx, artifacts); err != nil {
		return err
	}

	logger.Info("compile finished", zap.String("project", projectName), zap.Int("artifact_count", len(artifacts)))
	return nil
}

func persistParams(cfg *config.ProjectConfig) map[string]string {
	if cfg.Persist == nil {
		return nil
	}
	return cfg.Persist.Params
}

// loadProject discovers cfg's query-document sources and, recursively,
// its base project's sources, and resolves cfg's schema via schemaBuilder
// (never the core pipeline's job — spec.md §1 places both source
// discovery and schema parsing outside the compiler proper).
func loadProject(ctx context.Context, ws *config.Workspace, cfg *config.ProjectConfig, logger *zap.Logger) (*pipeline.Project, error) {
	sources, err := discoverSources(cfg)
	if err != nil {
		return nil, fmt.Errorf("queryc: project %q: %w", cfg.Name, err)
	}
	schemaText, err := readSchemaFiles(cfg)
	if err != nil {
		return nil, fmt.Errorf("queryc: project %q: %w", cfg.Name, err)
	}
	sch, err := schemaBuilder(cfg.Name, schemaText)
	if err != nil {
		return nil, err
	}

	proj := &pipeline.Project{Name: cfg.Name, Schema: sch, Sources: sources}

	baseCfg, err := ws.BaseOf(cfg)
	if err != nil {
		return nil, err
	}
	if baseCfg != nil {
		baseProj, err := loadProject(ctx, ws, baseCfg, logger)
		if err != nil {
			return nil, err
		}
		proj.Base = baseProj
	}
	logger.Debug("project loaded", zap.String("project", cfg.Name), zap.Int("source_count", len(sources)))
	return proj, nil
}

func discoverSources(cfg *config.ProjectConfig) ([]pipeline.SourceFile, error) {
	var out []pipeline.SourceFile
	for _, root := range cfg.SourceRoots {
		dir := root
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cfg.Root, dir)
		}
		err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !hasQuerySourceExtension(p) {
				return nil
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			out = append(out, pipeline.SourceFile{FileKey: intern.Intern(p), Text: data})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	}
	return out, nil
}

func hasQuerySourceExtension(p string) bool {
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

func readSchemaFiles(cfg *config.ProjectConfig) (map[string][]byte, error) {
	out := make(map[string][]byte, len(cfg.SchemaFiles))
	for _, f := range cfg.SchemaFiles {
		p := f
		if !filepath.IsAbs(p) {
			p = filepath.Join(cfg.Root, p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", p, err)
		}
		out[f] = data
	}
	return out, nil
}
