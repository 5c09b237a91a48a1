package passes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/transform"
)

var moduleDirectiveName = intern.Intern("module")
var matchDirectiveName = intern.Intern("match")
var moduleNameArgName = intern.Intern("name")
var dataDrivenDependencyMetadataName = intern.Intern("__dataDrivenDependencyMetadata")

type moduleBranch struct {
	typeName  string
	component string
	fragment  string
}

// MatchModule records a `(component, fragment)` branch per type for every
// `@module`-annotated inline fragment under a `@match`-annotated field, and
// replaces the field's `@match` directive with a synthesized
// `__dataDrivenDependencyMetadata` directive whose single string argument is
// a canonicalized JSON object `{branches: {typeName: {component, fragment}},
// plural: bool}`, sorted by type name for deterministic artifact output
// (spec.md §4.6 "match/module").
func MatchModule(program *ir.Program) (*ir.Program, error) {
	return transform.Run(program, &transform.NodeVisitor{
		VisitLinkedField: func(d *transform.Dispatcher, f ir.LinkedField) transform.Transformed[ir.Selection] {
			t := d.DefaultLinkedField(f)
			lf, outcome := asLinkedField(t, f)
			if outcome == transform.Delete {
				return t
			}
			if !hasDirective(lf.Directives, matchDirectiveName) {
				return t
			}
			branches := collectModuleBranches(lf.Selections)
			if len(branches) == 0 {
				return t
			}
			plural := lf.Type.IsList()
			lf.Directives = append(keepNonMatch(lf.Directives), ir.Directive{
				Name: ir.At(dataDrivenDependencyMetadataName, lf.Loc),
				Arguments: []ir.Argument{{
					Name: ir.At(intern.Intern("value"), lf.Loc),
					Value: ir.At(ir.Value{
						Kind:  ir.VConstant,
						Const: ir.Constant{Kind: ir.CString, StrVal: encodeModuleMetadata(branches, plural)},
					}, lf.Loc),
				}},
			})
			return transform.Replaced[ir.Selection](lf)
		},
	})
}

func keepNonMatch(dirs []ir.Directive) []ir.Directive {
	out := make([]ir.Directive, 0, len(dirs))
	for _, d := range dirs {
		if d.Name.Value != matchDirectiveName {
			out = append(out, d)
		}
	}
	return out
}

func collectModuleBranches(sels []ir.Selection) []moduleBranch {
	var branches []moduleBranch
	for _, sel := range sels {
		frag, ok := sel.(ir.InlineFragment)
		if !ok || frag.TypeCondition == 0 {
			continue
		}
		modDir, ok := findDirective(frag.Directives, moduleDirectiveName)
		if !ok {
			continue
		}
		component := directiveArgString(modDir, moduleNameArgName)
		fragmentName := ""
		for _, inner := range frag.Selections {
			if spread, ok := inner.(ir.FragmentSpread); ok {
				fragmentName = intern.Lookup(spread.FragmentName)
				break
			}
		}
		branches = append(branches, moduleBranch{
			typeName:  intern.Lookup(frag.TypeCondition),
			component: component,
			fragment:  fragmentName,
		})
	}
	return branches
}

func findDirective(dirs []ir.Directive, name intern.ID) (ir.Directive, bool) {
	for _, d := range dirs {
		if d.Name.Value == name {
			return d, true
		}
	}
	return ir.Directive{}, false
}

func directiveArgString(d ir.Directive, argName intern.ID) string {
	for _, a := range d.Arguments {
		if a.Name.Value != argName {
			continue
		}
		if a.Value.Value.Kind == ir.VConstant {
			c := a.Value.Value.Const
			if c.Kind == ir.CString || c.Kind == ir.CEnum {
				return c.StrVal
			}
		}
	}
	return ""
}

func encodeModuleMetadata(branches []moduleBranch, plural bool) string {
	sort.Slice(branches, func(i, j int) bool { return branches[i].typeName < branches[j].typeName })
	var b strings.Builder
	b.WriteString(`{"branches":{`)
	for i, br := range branches {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `%s:{"component":%s,"fragment":%s}`,
			jsonString(br.typeName), jsonString(br.component), jsonString(br.fragment))
	}
	b.WriteString(`},"plural":`)
	if plural {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
	b.WriteByte('}')
	return b.String()
}

func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
