package passes

import (
	"sort"

	"github.com/viant/queryc/identity"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/transform"
)

// kindRank orders selection kinds for sort_selections: fields before
// structural wrappers, matching the redundancy engine's own
// fields-first/conditionals-last convention (spec.md §4.7) so the two
// passes agree on what "stable order" means.
func kindRank(k ir.SelectionKind) int {
	switch k {
	case ir.KindScalarField:
		return 0
	case ir.KindLinkedField:
		return 1
	case ir.KindFragmentSpread:
		return 2
	case ir.KindInlineFragment:
		return 3
	case ir.KindCondition:
		return 4
	default:
		return 5
	}
}

// SortSelections imposes a total, deterministic order on every selection
// list: first by kind rank, then by NodeIdentifier string, so semantically
// identical programs always print identical artifact text (spec.md §4.6
// "sort_selections"). Runs right after redundancy elimination has merged
// equivalent selections. In Reader it is the last selection-shaping pass;
// in Normalization, generate_id_field and the later passes run after it.
func SortSelections(program *ir.Program) (*ir.Program, error) {
	return transform.Run(program, &transform.NodeVisitor{
		VisitOperation: func(d *transform.Dispatcher, op *ir.OperationDefinition) transform.Transformed[*ir.OperationDefinition] {
			resolved := d.TraverseSelections(op.Selections).Resolve(op.Selections)
			clone := *op
			clone.Selections = sortedCopy(resolved)
			return transform.Replaced[*ir.OperationDefinition](&clone)
		},
		VisitFragment: func(d *transform.Dispatcher, f *ir.FragmentDefinition) transform.Transformed[*ir.FragmentDefinition] {
			resolved := d.TraverseSelections(f.Selections).Resolve(f.Selections)
			clone := *f
			clone.Selections = sortedCopy(resolved)
			return transform.Replaced[*ir.FragmentDefinition](&clone)
		},
		VisitLinkedField: func(d *transform.Dispatcher, f ir.LinkedField) transform.Transformed[ir.Selection] {
			t := d.DefaultLinkedField(f)
			lf, outcome := asLinkedField(t, f)
			if outcome == transform.Delete {
				return t
			}
			sorted := sortedCopy(lf.Selections)
			lf.Selections = sorted
			return transform.Replaced[ir.Selection](lf)
		},
		VisitInlineFragment: func(d *transform.Dispatcher, f ir.InlineFragment) transform.Transformed[ir.Selection] {
			t := d.DefaultInlineFragment(f)
			v, outcome := asInlineFragment(t, f)
			if outcome == transform.Delete {
				return t
			}
			v.Selections = sortedCopy(v.Selections)
			return transform.Replaced[ir.Selection](v)
		},
		VisitCondition: func(d *transform.Dispatcher, c ir.Condition) transform.Transformed[ir.Selection] {
			t := d.DefaultCondition(c)
			v, outcome := asCondition(t, c)
			if outcome == transform.Delete {
				return t
			}
			v.Selections = sortedCopy(v.Selections)
			return transform.Replaced[ir.Selection](v)
		},
	})
}

func asInlineFragment(t transform.Transformed[ir.Selection], fallback ir.InlineFragment) (ir.InlineFragment, transform.Outcome) {
	switch t.Outcome {
	case transform.Replace:
		return t.Value.(ir.InlineFragment), transform.Replace
	case transform.Delete:
		return ir.InlineFragment{}, transform.Delete
	default:
		return fallback, transform.Keep
	}
}

func asCondition(t transform.Transformed[ir.Selection], fallback ir.Condition) (ir.Condition, transform.Outcome) {
	switch t.Outcome {
	case transform.Replace:
		return t.Value.(ir.Condition), transform.Replace
	case transform.Delete:
		return ir.Condition{}, transform.Delete
	default:
		return fallback, transform.Keep
	}
}

func sortedCopy(sels []ir.Selection) []ir.Selection {
	out := make([]ir.Selection, len(sels))
	copy(out, sels)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := kindRank(out[i].Kind()), kindRank(out[j].Kind())
		if ri != rj {
			return ri < rj
		}
		return identity.FromSelection(out[i]).String() < identity.FromSelection(out[j]).String()
	})
	return out
}
