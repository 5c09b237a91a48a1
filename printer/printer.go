// Package printer renders a built ir.Program's operations and fragments
// back to query-language text — the "printed request" / "printed
// operation text" spec.md §6 says every artifact embeds, and so part of
// the body the artifact signer hashes. Source hashes are not computed
// from this output: the pipeline hashes each definition's raw source text.
package printer

import (
	"fmt"
	"strings"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
)

// Operation renders op as `query|mutation|subscription Name(vars) {
// selections }`.
func Operation(op *ir.OperationDefinition) string {
	var b strings.Builder
	b.WriteString(operationKindKeyword(op.OperationKind))
	if name := intern.Lookup(op.Name.Value); name != "" {
		b.WriteString(" ")
		b.WriteString(name)
	}
	if len(op.VariableDefinitions) > 0 {
		b.WriteString(printVariableDefinitions(op.VariableDefinitions))
	}
	if len(op.Directives) > 0 {
		b.WriteString(" ")
		b.WriteString(ir.DirectivesString(ir.UserDirectives(op.Directives)))
	}
	b.WriteString(" ")
	b.WriteString(printSelectionSet(op.Selections, 0))
	return b.String()
}

// Fragment renders f as `fragment Name on Type { selections }`.
func Fragment(f *ir.FragmentDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fragment %s on %s", intern.Lookup(f.Name.Value), intern.Lookup(f.TypeCondition))
	if len(f.Directives) > 0 {
		b.WriteString(" ")
		b.WriteString(ir.DirectivesString(ir.UserDirectives(f.Directives)))
	}
	b.WriteString(" ")
	b.WriteString(printSelectionSet(f.Selections, 0))
	return b.String()
}

func operationKindKeyword(k ir.OperationKind) string {
	switch k {
	case ir.Mutation:
		return "mutation"
	case ir.Subscription:
		return "subscription"
	default:
		return "query"
	}
}

func printVariableDefinitions(vars []ir.VarDef) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		s := fmt.Sprintf("$%s: %s", intern.Lookup(v.Name.Value), v.Type.String())
		if v.DefaultValue != nil {
			s += " = " + ir.ValueString(*v.DefaultValue)
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func printSelectionSet(sels []ir.Selection, depth int) string {
	if len(sels) == 0 {
		return "{}"
	}
	indent := strings.Repeat("  ", depth+1)
	closeIndent := strings.Repeat("  ", depth)
	var b strings.Builder
	b.WriteString("{\n")
	for _, sel := range sels {
		b.WriteString(indent)
		b.WriteString(printSelection(sel, depth+1))
		b.WriteString("\n")
	}
	b.WriteString(closeIndent)
	b.WriteString("}")
	return b.String()
}

func printSelection(sel ir.Selection, depth int) string {
	switch v := sel.(type) {
	case ir.ScalarField:
		return printFieldHead(v.Alias, v.Name, v.Arguments, v.Directives)
	case ir.LinkedField:
		head := printFieldHead(v.Alias, v.Name, v.Arguments, v.Directives)
		return head + " " + printSelectionSet(v.Selections, depth)
	case ir.InlineFragment:
		head := "..."
		if v.HasTypeCondition() {
			head += " on " + intern.Lookup(v.TypeCondition)
		}
		if len(v.Directives) > 0 {
			head += " " + ir.DirectivesString(ir.UserDirectives(v.Directives))
		}
		return strings.TrimRight(head, " ") + " " + printSelectionSet(v.Selections, depth)
	case ir.FragmentSpread:
		head := "..." + intern.Lookup(v.FragmentName)
		if len(v.Arguments) > 0 {
			head += " @arguments" + ir.ArgumentsString(v.Arguments)
		}
		if len(v.Directives) > 0 {
			head += " " + ir.DirectivesString(ir.UserDirectives(v.Directives))
		}
		return head
	case ir.Condition:
		name := "include"
		if v.ConditionKind == ir.Unless {
			name = "skip"
		}
		valueStr := "$" + intern.Lookup(v.Value.Variable)
		if !v.Value.IsVariable {
			valueStr = fmt.Sprintf("%v", v.Value.Literal)
		}
		return fmt.Sprintf("... @%s(if: %s) %s", name, valueStr, printSelectionSet(v.Selections, depth))
	default:
		return "<unknown-selection>"
	}
}

func printFieldHead(alias, name intern.ID, args []ir.Argument, directives []ir.Directive) string {
	var b strings.Builder
	if alias != 0 {
		fmt.Fprintf(&b, "%s: %s", intern.Lookup(alias), intern.Lookup(name))
	} else {
		b.WriteString(intern.Lookup(name))
	}
	if len(args) > 0 {
		b.WriteString(ir.ArgumentsString(args))
	}
	if userDirs := ir.UserDirectives(directives); len(userDirs) > 0 {
		b.WriteString(" ")
		b.WriteString(ir.DirectivesString(userDirs))
	}
	return b.String()
}
