package pipeline

import (
	"fmt"

	"github.com/viant/queryc/dependency"
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/ir/build"
	ierrors "github.com/viant/queryc/ir/errors"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/syntaxast"
	"go.uber.org/zap"
)

// SourceFile is a single `(file_key, text)` input (spec.md §6 "Input
// files").
type SourceFile struct {
	FileKey intern.ID
	Text    []byte
}

// Project is one build unit: its own source set, the schema it builds
// against (schema-language parsing is out of core, spec.md §1 — callers
// supply an already-assembled *schema.Schema), and optionally one base
// project whose reachable definitions may be spread but whose own
// artifacts this project must never re-emit (spec.md §2.10, §4.10 step 2:
// "gather its own source set plus, if set, one base project's source
// set").
type Project struct {
	Name    string
	Schema  *schema.Schema
	Sources []SourceFile
	Base    *Project
}

// BuildRequest drives one orchestrator run. ChangedNames is nil for a
// full build; for an incremental build it names the definitions whose
// source text changed since the prior build (spec.md §4.10 step 5).
// Logger is optional; a nil Logger runs silently (zap.NewNop semantics).
type BuildRequest struct {
	Project      *Project
	ChangedNames map[string]bool
	Logger       *zap.Logger
}

// BuildOutput is everything one build produces: the five parallel
// Programs, accumulated validation errors, source hashes for every
// reachable definition (spec.md §4.10 step 3), and — for an incremental
// build — the set of definition names whose artifacts need re-emission.
type BuildOutput struct {
	Programs     ir.Programs
	Errors       *ierrors.List
	SourceHashes map[string]string
	Affected     map[string]bool // nil for a full build
}

// Build runs one complete build per spec.md §4.10: parse, compute source
// hashes over the reachable AST closure, build IR, run the four
// pipelines, and (for an incremental request) compute which definitions'
// artifacts are affected by the change set.
func Build(req *BuildRequest) (*BuildOutput, error) {
	proj := req.Project
	log := req.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("build started", zap.String("project", proj.Name), zap.Int("source_count", len(proj.Sources)))

	docs, parseErrs := parseSources(proj.Sources)
	if len(parseErrs) > 0 {
		return nil, fmt.Errorf("project %q: %d parse error(s), first: %w", proj.Name, len(parseErrs), parseErrs[0])
	}

	projectDefs := flattenDefinitions(docs)
	var baseDefs []syntaxast.ExecutableDefinition
	var baseDocs map[intern.ID]*syntaxast.Document
	if proj.Base != nil {
		baseDocs, parseErrs = parseSources(proj.Base.Sources)
		if len(parseErrs) > 0 {
			return nil, fmt.Errorf("project %q base %q: %d parse error(s), first: %w", proj.Name, proj.Base.Name, len(parseErrs), parseErrs[0])
		}
		baseDefs = flattenDefinitions(baseDocs)
	}

	closure, baseNames := dependency.ReachableAST(projectDefs, baseDefs)
	log.Debug("reachable AST closure computed", zap.Int("closure_size", len(closure)), zap.Int("base_names", len(baseNames)))
	if len(closure) == 0 {
		log.Warn("reachable AST closure is empty", zap.String("project", proj.Name))
	}

	text := sourceTextByFileKey(proj.Sources)
	if proj.Base != nil {
		for k, v := range sourceTextByFileKey(proj.Base.Sources) {
			text[k] = v
		}
	}
	defFileKey := definitionFileKeys(docs)
	if baseDocs != nil {
		for k, v := range definitionFileKeys(baseDocs) {
			defFileKey[k] = v
		}
	}
	sourceHashes := computeSourceHashes(closure, defFileKey, text)

	buildDocs := mergeReachableDocs(docs, baseDocs, closure)
	program0, buildErrs := build.Build(proj.Schema, buildDocs)
	if buildErrs.HasErrors() {
		return &BuildOutput{Errors: buildErrs, SourceHashes: sourceHashes}, nil
	}
	markBaseFragments(program0, baseNames)

	prepared, prepErrs := PreparedFork(program0)
	allErrs := mergeErrorLists(buildErrs, prepErrs)
	if allErrs.HasErrors() {
		return &BuildOutput{Errors: allErrs, SourceHashes: sourceHashes}, nil
	}

	var affected map[string]bool
	if req.ChangedNames != nil {
		baseIDs := toInternedSet(baseNames)
		changedIDs := toInternedSet(req.ChangedNames)
		affectedIDs := dependency.ReachableIR(prepared, baseIDs, changedIDs)
		affected = fromInternedSet(affectedIDs)
		if len(affected) == 0 {
			log.Warn("incremental build affected no definitions", zap.String("project", proj.Name), zap.Int("changed_count", len(req.ChangedNames)))
		}
	}

	normalization, err := Normalization(prepared)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", proj.Name, err)
	}
	reader, err := Reader(prepared)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", proj.Name, err)
	}
	operationText, err := OperationText(prepared)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", proj.Name, err)
	}
	typegen, err := Typegen(prepared)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", proj.Name, err)
	}

	log.Debug("build completed", zap.String("project", proj.Name), zap.Int("operation_count", len(normalization.OperationNames())))

	return &BuildOutput{
		Programs: ir.Programs{
			Source:        program0,
			Reader:        reader,
			Normalization: normalization,
			OperationText: operationText,
			Typegen:       typegen.Program,
		},
		Errors:       allErrs,
		SourceHashes: sourceHashes,
		Affected:     affected,
	}, nil
}

func parseSources(files []SourceFile) (map[intern.ID]*syntaxast.Document, []error) {
	docs := make(map[intern.ID]*syntaxast.Document, len(files))
	var errs []error
	for _, f := range files {
		doc, err := syntaxast.Parse(f.Text)
		if err != nil {
			errs = append(errs, fmt.Errorf("file#%d: %w", f.FileKey, err))
			continue
		}
		docs[f.FileKey] = doc
	}
	return docs, errs
}

func flattenDefinitions(docs map[intern.ID]*syntaxast.Document) []syntaxast.ExecutableDefinition {
	var out []syntaxast.ExecutableDefinition
	for _, doc := range docs {
		out = append(out, doc.Definitions...)
	}
	return out
}

func sourceTextByFileKey(files []SourceFile) map[intern.ID][]byte {
	out := make(map[intern.ID][]byte, len(files))
	for _, f := range files {
		out[f.FileKey] = f.Text
	}
	return out
}

func definitionFileKeys(docs map[intern.ID]*syntaxast.Document) map[string]intern.ID {
	out := make(map[string]intern.ID)
	for fileKey, doc := range docs {
		for _, d := range doc.Definitions {
			out[definitionName(d)] = fileKey
		}
	}
	return out
}

func definitionName(d syntaxast.ExecutableDefinition) string {
	switch v := d.(type) {
	case *syntaxast.OperationDefinition:
		return v.Name
	case *syntaxast.FragmentDefinition:
		return v.Name
	default:
		return ""
	}
}

// mergeReachableDocs assembles the document set build.Build consumes:
// every project document as-is, plus a synthetic document carrying only
// the base definitions the reachable closure actually needs — a base
// project may be far larger than what one dependent project spreads.
func mergeReachableDocs(projectDocs, baseDocs map[intern.ID]*syntaxast.Document, closure map[string]syntaxast.ExecutableDefinition) map[intern.ID]*syntaxast.Document {
	out := make(map[intern.ID]*syntaxast.Document, len(projectDocs)+1)
	for k, v := range projectDocs {
		out[k] = v
	}
	if baseDocs == nil {
		return out
	}
	projectNames := make(map[string]bool)
	for _, doc := range projectDocs {
		for _, d := range doc.Definitions {
			projectNames[definitionName(d)] = true
		}
	}
	var fromBase []syntaxast.ExecutableDefinition
	for name, def := range closure {
		if projectNames[name] {
			continue
		}
		fromBase = append(fromBase, def)
	}
	if len(fromBase) > 0 {
		out[baseSyntheticFileKey] = &syntaxast.Document{Definitions: fromBase}
	}
	return out
}

var baseSyntheticFileKey = intern.Intern("__base__")

func markBaseFragments(program *ir.Program, baseNames map[string]bool) {
	for name := range baseNames {
		id := intern.Intern(name)
		if f, ok := program.Fragment(id); ok {
			f.IsBase = true
		}
	}
}

// computeSourceHashes is ir.SourceHash (spec.md §3 "Source hash") applied
// to each reachable definition's own source substring, located via its
// span within the file it came from — the exact text later builds diff
// against to decide which names belong in an incremental build's
// changed set.
func computeSourceHashes(closure map[string]syntaxast.ExecutableDefinition, defFileKey map[string]intern.ID, text map[intern.ID][]byte) map[string]string {
	out := make(map[string]string, len(closure))
	for name, def := range closure {
		span := def.DefSpan()
		fileKey, ok := defFileKey[name]
		if !ok {
			out[name] = ir.SourceHash(fmt.Sprintf("%s@%d-%d", name, span.Start, span.End))
			continue
		}
		src := text[fileKey]
		if span.Start < 0 || span.End > len(src) || span.Start > span.End {
			out[name] = ir.SourceHash(fmt.Sprintf("%s@%d-%d", name, span.Start, span.End))
			continue
		}
		out[name] = ir.SourceHash(string(src[span.Start:span.End]))
	}
	return out
}

func mergeErrorLists(lists ...*ierrors.List) *ierrors.List {
	merged := &ierrors.List{}
	for _, l := range lists {
		if l == nil {
			continue
		}
		for _, e := range l.Errors() {
			merged.Add(e)
		}
	}
	return merged
}

func toInternedSet(names map[string]bool) map[intern.ID]bool {
	out := make(map[intern.ID]bool, len(names))
	for name := range names {
		out[intern.Intern(name)] = true
	}
	return out
}

func fromInternedSet(ids map[intern.ID]bool) map[string]bool {
	out := make(map[string]bool, len(ids))
	for id := range ids {
		out[intern.Lookup(id)] = true
	}
	return out
}
