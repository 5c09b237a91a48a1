package passes

import (
	"fmt"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
)

// ApplyFragmentArguments resolves every `@arguments`-parameterized
// fragment spread (spec.md §4.6 "apply_fragment_arguments") before any
// identity-based dedupe pass runs, since two spreads of the same fragment
// with different arguments must NOT be treated as redundant with each
// other. For each spread supplying arguments, it clones the target
// fragment with its local `VariableDefinitions` substituted by the
// spread's concrete values throughout the body, registers the clone under
// a synthesized per-call-site name, and rewrites the spread to reference
// the clone with no arguments of its own. Runs to a fixpoint so a chain of
// parameterized spreads (a fragment that itself spreads another
// parameterized fragment) resolves completely.
func ApplyFragmentArguments(program *ir.Program) *ir.Program {
	current := program
	for {
		next, changed := applyFragmentArgumentsOnce(current)
		if !changed {
			return next
		}
		current = next
	}
}

func applyFragmentArgumentsOnce(program *ir.Program) (*ir.Program, bool) {
	out := ir.NewProgram(program.Schema)
	changed := false
	synthesized := map[intern.ID]*ir.FragmentDefinition{}

	resolve := func(name intern.ID) (*ir.FragmentDefinition, bool) {
		if f, ok := synthesized[name]; ok {
			return f, true
		}
		return program.Fragment(name)
	}

	var rewriteSelections func(sels []ir.Selection) []ir.Selection
	rewriteSelections = func(sels []ir.Selection) []ir.Selection {
		out := make([]ir.Selection, len(sels))
		for i, sel := range sels {
			switch v := sel.(type) {
			case ir.ScalarField:
				out[i] = v
			case ir.LinkedField:
				v.Selections = rewriteSelections(v.Selections)
				out[i] = v
			case ir.InlineFragment:
				v.Selections = rewriteSelections(v.Selections)
				out[i] = v
			case ir.Condition:
				v.Selections = rewriteSelections(v.Selections)
				out[i] = v
			case ir.FragmentSpread:
				if len(v.Arguments) == 0 {
					out[i] = v
					continue
				}
				target, ok := resolve(v.FragmentName)
				if !ok {
					out[i] = v
					continue
				}
				changed = true
				newName := specializedFragmentName(v.FragmentName, v.Arguments)
				if _, exists := synthesized[newName]; !exists {
					synthesized[newName] = specializeFragment(target, newName, v.Arguments)
				}
				out[i] = ir.FragmentSpread{
					FragmentName: newName,
					Directives:   v.Directives,
					Loc:          v.Loc,
				}
			default:
				out[i] = sel
			}
		}
		return out
	}

	for _, name := range program.OperationNames() {
		op := program.Operations[name]
		clone := *op
		clone.Selections = rewriteSelections(op.Selections)
		out.PutOperation(&clone)
	}
	for _, name := range program.FragmentNames() {
		f := program.Fragments[name]
		clone := *f
		clone.Selections = rewriteSelections(f.Selections)
		out.PutFragment(&clone)
	}
	for _, f := range synthesized {
		if _, exists := out.Fragment(f.Name.Value); !exists {
			out.PutFragment(f)
		}
	}
	return out, changed
}

func specializedFragmentName(base intern.ID, args []ir.Argument) intern.ID {
	return intern.Intern(fmt.Sprintf("%s$%s", intern.Lookup(base), ir.ArgumentsString(args)))
}

func specializeFragment(target *ir.FragmentDefinition, newName intern.ID, args []ir.Argument) *ir.FragmentDefinition {
	subst := map[intern.ID]ir.Value{}
	for _, a := range args {
		subst[a.Name.Value] = a.Value.Value
	}
	clone := target.Clone()
	clone.Name = ir.At(newName, target.Name.Location)
	clone.VariableDefinitions = nil
	clone.Selections = substituteSelections(clone.Selections, subst)
	return clone
}

func substituteSelections(sels []ir.Selection, subst map[intern.ID]ir.Value) []ir.Selection {
	out := make([]ir.Selection, len(sels))
	for i, sel := range sels {
		switch v := sel.(type) {
		case ir.ScalarField:
			v.Arguments = substituteArguments(v.Arguments, subst)
			v.Directives = substituteDirectives(v.Directives, subst)
			out[i] = v
		case ir.LinkedField:
			v.Arguments = substituteArguments(v.Arguments, subst)
			v.Directives = substituteDirectives(v.Directives, subst)
			v.Selections = substituteSelections(v.Selections, subst)
			out[i] = v
		case ir.InlineFragment:
			v.Directives = substituteDirectives(v.Directives, subst)
			v.Selections = substituteSelections(v.Selections, subst)
			out[i] = v
		case ir.Condition:
			v.Value = substituteConditionValue(v.Value, subst)
			v.Selections = substituteSelections(v.Selections, subst)
			out[i] = v
		case ir.FragmentSpread:
			v.Arguments = substituteArguments(v.Arguments, subst)
			v.Directives = substituteDirectives(v.Directives, subst)
			out[i] = v
		default:
			out[i] = sel
		}
	}
	return out
}

func substituteArguments(args []ir.Argument, subst map[intern.ID]ir.Value) []ir.Argument {
	out := make([]ir.Argument, len(args))
	for i, a := range args {
		a.Value = ir.At(substituteValue(a.Value.Value, subst), a.Value.Location)
		out[i] = a
	}
	return out
}

func substituteDirectives(dirs []ir.Directive, subst map[intern.ID]ir.Value) []ir.Directive {
	out := make([]ir.Directive, len(dirs))
	for i, d := range dirs {
		d.Arguments = substituteArguments(d.Arguments, subst)
		out[i] = d
	}
	return out
}

func substituteValue(v ir.Value, subst map[intern.ID]ir.Value) ir.Value {
	switch v.Kind {
	case ir.VVariable:
		if replacement, ok := subst[v.VarName]; ok {
			return replacement
		}
		return v
	case ir.VList:
		out := make([]ir.Value, len(v.List))
		for i, e := range v.List {
			out[i] = substituteValue(e, subst)
		}
		v.List = out
		return v
	case ir.VObject:
		v.Object = substituteArguments(v.Object, subst)
		return v
	default:
		return v
	}
}

func substituteConditionValue(cv ir.ConditionValue, subst map[intern.ID]ir.Value) ir.ConditionValue {
	if !cv.IsVariable {
		return cv
	}
	replacement, ok := subst[cv.Variable]
	if !ok {
		return cv
	}
	if replacement.Kind == ir.VVariable {
		return ir.ConditionValue{IsVariable: true, Variable: replacement.VarName}
	}
	if replacement.Kind == ir.VConstant && replacement.Const.Kind == ir.CBool {
		return ir.ConditionValue{IsVariable: false, Literal: replacement.Const.BoolVal}
	}
	return cv
}
