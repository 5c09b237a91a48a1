package transform

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
)

// NodeVisitor is the per-transform contract spec.md §4.4 describes: a
// struct of optional callbacks, one per IR node kind. A nil callback
// falls back to default recursive descent with identity preservation —
// the visitor only needs to implement the node kinds it actually
// rewrites. The dispatcher never visits arguments or directives, and it
// does not read the SkipArguments and SkipDirectives flags.
type NodeVisitor struct {
	VisitOperation func(d *Dispatcher, op *ir.OperationDefinition) Transformed[*ir.OperationDefinition]
	VisitFragment  func(d *Dispatcher, f *ir.FragmentDefinition) Transformed[*ir.FragmentDefinition]

	VisitScalarField     func(d *Dispatcher, f ir.ScalarField) Transformed[ir.Selection]
	VisitLinkedField     func(d *Dispatcher, f ir.LinkedField) Transformed[ir.Selection]
	VisitInlineFragment  func(d *Dispatcher, f ir.InlineFragment) Transformed[ir.Selection]
	VisitFragmentSpread  func(d *Dispatcher, f ir.FragmentSpread) Transformed[ir.Selection]
	VisitCondition       func(d *Dispatcher, c ir.Condition) Transformed[ir.Selection]

	SkipArguments  bool
	SkipDirectives bool
}

// Dispatcher carries the read-only context a visitor callback needs
// (schema access) plus the ability to invoke default traversal on a node
// it received but doesn't want to fully override.
type Dispatcher struct {
	Schema  *schema.Schema
	visitor *NodeVisitor
}

// Run applies v to program, producing a new Program. Operations and
// fragments are visited in parallel (spec.md §5); a transform is a pure
// function of its input, so Run never mutates program itself.
func Run(program *ir.Program, v *NodeVisitor) (*ir.Program, error) {
	d := &Dispatcher{Schema: program.Schema, visitor: v}
	out := ir.NewProgram(program.Schema)

	g, _ := errgroup.WithContext(context.Background())
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		g.Go(func() error {
			next := d.dispatchFragment(f)
			if next != nil {
				out.PutFragment(next)
			}
			return nil
		})
	}
	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		g.Go(func() error {
			next := d.dispatchOperation(op)
			if next != nil {
				out.PutOperation(next)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Dispatcher) dispatchOperation(op *ir.OperationDefinition) *ir.OperationDefinition {
	if d.visitor.VisitOperation != nil {
		t := d.visitor.VisitOperation(d, op)
		switch t.Outcome {
		case Delete:
			return nil
		case Replace:
			return t.Value
		}
	}
	selections := d.TraverseSelections(op.Selections)
	if selections.IsKeep() {
		return op
	}
	clone := *op
	clone.Selections = selections.Resolve(op.Selections)
	return &clone
}

func (d *Dispatcher) dispatchFragment(f *ir.FragmentDefinition) *ir.FragmentDefinition {
	if d.visitor.VisitFragment != nil {
		t := d.visitor.VisitFragment(d, f)
		switch t.Outcome {
		case Delete:
			return nil
		case Replace:
			return t.Value
		}
	}
	selections := d.TraverseSelections(f.Selections)
	if selections.IsKeep() {
		return f
	}
	clone := *f
	clone.Selections = selections.Resolve(f.Selections)
	return &clone
}

// TraverseSelections applies default or overridden per-kind dispatch to
// every selection in sels, in order (depth-first, left-to-right — spec.md
// §5 "deterministic ordering guarantee within a single definition"). It
// returns Keep only when every child itself returned Keep and none were
// deleted, so a parent can skip reallocating its own selection slice.
func (d *Dispatcher) TraverseSelections(sels []ir.Selection) TransformedValue[ir.Selection] {
	changed := false
	out := make([]ir.Selection, 0, len(sels))
	for _, s := range sels {
		t := d.dispatchSelection(s)
		switch t.Outcome {
		case Delete:
			changed = true
		case Replace:
			changed = true
			out = append(out, t.Value)
		default:
			out = append(out, s)
		}
	}
	if !changed {
		return KeptList[ir.Selection]()
	}
	return ReplacedList(out)
}

func (d *Dispatcher) dispatchSelection(s ir.Selection) Transformed[ir.Selection] {
	switch sel := s.(type) {
	case ir.ScalarField:
		if d.visitor.VisitScalarField != nil {
			return d.visitor.VisitScalarField(d, sel)
		}
		return Kept[ir.Selection]()
	case ir.LinkedField:
		if d.visitor.VisitLinkedField != nil {
			return d.visitor.VisitLinkedField(d, sel)
		}
		return d.defaultLinkedField(sel)
	case ir.InlineFragment:
		if d.visitor.VisitInlineFragment != nil {
			return d.visitor.VisitInlineFragment(d, sel)
		}
		return d.defaultInlineFragment(sel)
	case ir.FragmentSpread:
		if d.visitor.VisitFragmentSpread != nil {
			return d.visitor.VisitFragmentSpread(d, sel)
		}
		return Kept[ir.Selection]()
	case ir.Condition:
		if d.visitor.VisitCondition != nil {
			return d.visitor.VisitCondition(d, sel)
		}
		return d.defaultCondition(sel)
	default:
		return Kept[ir.Selection]()
	}
}

// DefaultLinkedField exposes the default recursive-descent behavior for
// LinkedField so an overriding visitor can opt back into it after doing
// its own pre/post work (e.g. "rewrite this field, then still recurse").
func (d *Dispatcher) DefaultLinkedField(f ir.LinkedField) Transformed[ir.Selection] {
	return d.defaultLinkedField(f)
}

func (d *Dispatcher) defaultLinkedField(f ir.LinkedField) Transformed[ir.Selection] {
	children := d.TraverseSelections(f.Selections)
	if children.IsKeep() {
		return Kept[ir.Selection]()
	}
	resolved := children.Resolve(f.Selections)
	if len(resolved) == 0 {
		return Deleted[ir.Selection]()
	}
	f.Selections = resolved
	return Replaced[ir.Selection](f)
}

// DefaultInlineFragment exposes default traversal for InlineFragment.
func (d *Dispatcher) DefaultInlineFragment(f ir.InlineFragment) Transformed[ir.Selection] {
	return d.defaultInlineFragment(f)
}

func (d *Dispatcher) defaultInlineFragment(f ir.InlineFragment) Transformed[ir.Selection] {
	children := d.TraverseSelections(f.Selections)
	if children.IsKeep() {
		return Kept[ir.Selection]()
	}
	resolved := children.Resolve(f.Selections)
	if len(resolved) == 0 {
		return Deleted[ir.Selection]()
	}
	f.Selections = resolved
	return Replaced[ir.Selection](f)
}

// DefaultCondition exposes default traversal for Condition.
func (d *Dispatcher) DefaultCondition(c ir.Condition) Transformed[ir.Selection] {
	return d.defaultCondition(c)
}

func (d *Dispatcher) defaultCondition(c ir.Condition) Transformed[ir.Selection] {
	children := d.TraverseSelections(c.Selections)
	if children.IsKeep() {
		return Kept[ir.Selection]()
	}
	resolved := children.Resolve(c.Selections)
	if len(resolved) == 0 {
		return Deleted[ir.Selection]()
	}
	c.Selections = resolved
	return Replaced[ir.Selection](c)
}
