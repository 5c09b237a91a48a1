// Package pipeline wires the individual transforms in transform/passes
// and the redundancy engine into the four output pipelines spec.md §4.5
// names, plus the orchestrator that drives a full build (spec.md §4.10).
package pipeline

import (
	"fmt"

	"github.com/viant/queryc/ir"
	ierrors "github.com/viant/queryc/ir/errors"
	"github.com/viant/queryc/redundancy"
	"github.com/viant/queryc/transform/passes"
)

// Normalization runs the exact stage order spec.md §4.5 names:
// apply_fragment_arguments → client_extensions → generate_typename →
// handle_fields → inline_fragments → flatten(true) → skip_redundant_nodes
// → sort_selections → generate_id_field → transform_connections →
// match/module (which also emits generate_data_driven_dependency_metadata,
// see DESIGN.md) → skip_client_extensions.
func Normalization(program *ir.Program) (*ir.Program, error) {
	p := passes.ApplyFragmentArguments(program)
	p = passes.ClientExtensions(p)
	p = passes.GenerateTypename(p, false)

	p, err := passes.HandleFields(p)
	if err != nil {
		return nil, fmt.Errorf("normalization: handle_fields: %w", err)
	}

	p = passes.InlineFragments(p)
	p = passes.Flatten(p, true)

	p, err = redundancy.SkipRedundantNodes(p)
	if err != nil {
		return nil, fmt.Errorf("normalization: skip_redundant_nodes: %w", err)
	}

	p, err = passes.SortSelections(p)
	if err != nil {
		return nil, fmt.Errorf("normalization: sort_selections: %w", err)
	}

	p, err = passes.GenerateIDField(p)
	if err != nil {
		return nil, fmt.Errorf("normalization: generate_id_field: %w", err)
	}

	p, err = passes.TransformConnections(p)
	if err != nil {
		return nil, fmt.Errorf("normalization: transform_connections: %w", err)
	}

	p, err = passes.MatchModule(p)
	if err != nil {
		return nil, fmt.Errorf("normalization: match_module: %w", err)
	}

	p, err = passes.SkipClientExtensions(p)
	if err != nil {
		return nil, fmt.Errorf("normalization: skip_client_extensions: %w", err)
	}
	return passes.RemoveBaseFragments(p), nil
}

// Reader runs flatten(false) → skip_redundant_nodes → sort_selections,
// keeping inline fragments un-inlined, keeping client extension fields,
// and forcing __typename on every composite scope (spec.md §4.5
// "Reader": "keep inline fragments, keep client extensions, do not skip
// typename"). apply_fragment_arguments still runs first — identity-based
// dedupe in skip_redundant_nodes needs fragment arguments resolved
// regardless of pipeline, per spec.md §4.5's ordering rationale.
func Reader(program *ir.Program) (*ir.Program, error) {
	p := passes.ApplyFragmentArguments(program)
	p = passes.GenerateTypename(p, true)
	p = passes.Flatten(p, false)

	p, err := redundancy.SkipRedundantNodes(p)
	if err != nil {
		return nil, fmt.Errorf("reader: skip_redundant_nodes: %w", err)
	}

	p, err = passes.SortSelections(p)
	if err != nil {
		return nil, fmt.Errorf("reader: sort_selections: %w", err)
	}
	// Reader keeps fragment spreads un-inlined (by name), so dropping a
	// base fragment's own definition here only stops this Program from
	// re-emitting an artifact the base project already owns — it does not
	// dangle any spread, since spreads reference by name, not by pointer.
	return passes.RemoveBaseFragments(p), nil
}

// OperationText runs the normalization shaping a client actually sends
// over the wire: the same sequence as Normalization, but without
// transform_connections and match_module, since those exist purely to
// drive local store updates and data-driven-dependency metadata and would
// otherwise leak non-standard arguments/metadata
// into printed operation text (spec.md §4.5 "Operation text": "normalization
// sans client-only nodes and without @connection metadata").
func OperationText(program *ir.Program) (*ir.Program, error) {
	p := passes.ApplyFragmentArguments(program)
	p = passes.ClientExtensions(p)
	p = passes.GenerateTypename(p, false)

	p, err := passes.HandleFields(p)
	if err != nil {
		return nil, fmt.Errorf("operation_text: handle_fields: %w", err)
	}

	p = passes.InlineFragments(p)
	p = passes.Flatten(p, true)

	p, err = redundancy.SkipRedundantNodes(p)
	if err != nil {
		return nil, fmt.Errorf("operation_text: skip_redundant_nodes: %w", err)
	}

	p, err = passes.SortSelections(p)
	if err != nil {
		return nil, fmt.Errorf("operation_text: sort_selections: %w", err)
	}

	p, err = passes.GenerateIDField(p)
	if err != nil {
		return nil, fmt.Errorf("operation_text: generate_id_field: %w", err)
	}

	p, err = passes.SkipClientExtensions(p)
	if err != nil {
		return nil, fmt.Errorf("operation_text: skip_client_extensions: %w", err)
	}
	return passes.RemoveBaseFragments(p), nil
}

// Typegen runs the same upstream selection shaping as Normalization —
// spec.md §4.5 is explicit that "its upstream selection shaping is
// in-core" even though the type-projection emitter itself is not — plus
// required_directive, which exists specifically to hand typegen the
// `@required` metadata it needs and is not named in any other pipeline's
// stage list (spec.md §4.6 "required_directive": "consumed by typegen").
// TypegenResult.RequiredFields carries that metadata out to the (out of
// core) projection emitter.
type TypegenResult struct {
	Program        *ir.Program
	RequiredFields []passes.RequiredField
}

func Typegen(program *ir.Program) (*TypegenResult, error) {
	p := passes.ApplyFragmentArguments(program)
	p = passes.ClientExtensions(p)
	p = passes.GenerateTypename(p, false)

	p, err := passes.HandleFields(p)
	if err != nil {
		return nil, fmt.Errorf("typegen: handle_fields: %w", err)
	}

	p = passes.InlineFragments(p)
	p = passes.Flatten(p, true)

	p, required, err := passes.RequiredDirective(p)
	if err != nil {
		return nil, fmt.Errorf("typegen: required_directive: %w", err)
	}

	p, err = redundancy.SkipRedundantNodes(p)
	if err != nil {
		return nil, fmt.Errorf("typegen: skip_redundant_nodes: %w", err)
	}

	p, err = passes.SortSelections(p)
	if err != nil {
		return nil, fmt.Errorf("typegen: sort_selections: %w", err)
	}
	return &TypegenResult{Program: passes.RemoveBaseFragments(p), RequiredFields: required}, nil
}

// PreparedFork is the shared simplification applied once to Program₀
// before it forks into the four pipelines above: connection validation,
// declarative-connection lowering, and dead-branch elimination all produce
// identical results regardless of which downstream pipeline consumes
// them, so running them once avoids quadrupling validation-error
// reporting and repeated tree-walks (an Open Question spec.md §9 leaves
// implicit in naming these passes without placing them in any one
// pipeline's explicit stage list; see DESIGN.md). remove_base_fragments is
// deliberately NOT run here — it must follow inline_fragments (or, for
// Reader, run standalone since Reader never inlines), so each pipeline
// function applies it itself as its last step.
func PreparedFork(program *ir.Program) (*ir.Program, *ierrors.List) {
	var allErrors ierrors.List
	if connErrs := passes.ValidateConnections(program.Schema, program); connErrs != nil {
		for _, e := range connErrs.Errors() {
			allErrors.Add(e)
		}
	}

	p, declErrs := passes.DeclarativeConnection(program)
	if declErrs != nil {
		for _, e := range declErrs.Errors() {
			allErrors.Add(e)
		}
	}

	p = passes.SkipUnreachableNodes(p)

	return p, &allErrors
}
