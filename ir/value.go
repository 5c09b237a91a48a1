package ir

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/schema"
)

// ConstantKind discriminates the Constant sum type (spec.md §3).
type ConstantKind int

const (
	CInt ConstantKind = iota
	CFloat
	CString
	CBool
	CNull
	CEnum
	CList
	CObject
)

// ObjectField is a single (name, value) pair inside a Constant object.
type ObjectField struct {
	Name  intern.ID
	Value Constant
}

// Constant is a compile-time literal value: Int, Float, String, Bool, Null,
// Enum(name), List(Vec<Constant>), or Object(Vec<(name, Constant)>).
type Constant struct {
	Kind    ConstantKind
	IntVal  int64
	FltVal  float64
	StrVal  string // String and Enum share this field
	BoolVal bool
	List    []Constant
	Object  []ObjectField
}

// String renders a constant canonically for diagnostics and for the
// identity engine's argument canonicalization (spec.md §4.8).
func (c Constant) String() string {
	switch c.Kind {
	case CInt:
		return strconv.FormatInt(c.IntVal, 10)
	case CFloat:
		return strconv.FormatFloat(c.FltVal, 'g', -1, 64)
	case CString:
		return strconv.Quote(c.StrVal)
	case CBool:
		return strconv.FormatBool(c.BoolVal)
	case CNull:
		return "null"
	case CEnum:
		return c.StrVal
	case CList:
		parts := make([]string, len(c.List))
		for i, v := range c.List {
			parts[i] = v.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case CObject:
		fields := make([]ObjectField, len(c.Object))
		copy(fields, c.Object)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = fmt.Sprintf("%s:%s", intern.Lookup(f.Name), f.Value.String())
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return "<invalid-constant>"
	}
}

// Equal compares two constants structurally, recursing into lists/objects.
// Object field order does not matter for equality.
func (c Constant) Equal(other Constant) bool {
	return c.String() == other.String()
}

// ValueKind discriminates the Value sum type: Constant, Variable, List, or
// Object (of Arguments) (spec.md §3).
type ValueKind int

const (
	VConstant ValueKind = iota
	VVariable
	VList
	VObject
)

// Value is the run-time-or-compile-time value language: a literal
// Constant, a Variable reference, a List of Values, or an Object of
// Arguments.
type Value struct {
	Kind ValueKind

	Const Constant // VConstant

	VarName intern.ID        // VVariable
	VarType *schema.TypeRef  // VVariable: declared type at the reference site

	List []Value // VList

	Object []Argument // VObject
}

// IsVariable reports whether this value is a bare variable reference.
func (v Value) IsVariable() bool { return v.Kind == VVariable }

// Argument is a named value, e.g. a field argument or directive argument.
// Arguments are ordered for IR preservation but treated as a set for
// equality in node-identity comparisons (spec.md §3).
type Argument struct {
	Name  WithLocation[intern.ID]
	Value WithLocation[Value]
}

// Directive is a `@name(args...)` annotation. Some directives are
// "internal/custom" and ignored when computing selection identity
// (spec.md §3, §4.8); IsInternal reports that classification.
type Directive struct {
	Name      WithLocation[intern.ID]
	Arguments []Argument
}

// internalDirectiveNames is the fixed enumeration SPEC_FULL.md §7 commits
// to for the Open Question in spec.md §9: which directives are "internal"
// for redundancy-engine fork exemption and identity exclusion.
var internalDirectiveNames = map[string]bool{
	"defer":         true,
	"stream":        true,
	"module":        true,
	"match":         true,
	"connection":    true,
	"__clientField": true,
	"__handleField": true,
	"__dataDrivenDependencyMetadata": true,
	"__required":              true,
	"__declarativeConnection": true,
}

// IsInternal reports whether this directive is one of the fixed internal
// directives the transform library injects or treats specially, as opposed
// to a directive a user wrote that must participate in identity/equality.
func (d Directive) IsInternal() bool {
	return internalDirectiveNames[intern.Lookup(d.Name.Value)]
}

// UserDirectives filters out internal directives, in source order.
func UserDirectives(directives []Directive) []Directive {
	out := make([]Directive, 0, len(directives))
	for _, d := range directives {
		if !d.IsInternal() {
			out = append(out, d)
		}
	}
	return out
}

// ValueString canonicalizes a Value for identity/equality purposes
// (spec.md §4.8 "canonicalized arguments"): sorts Object-kind values by
// argument name and recurses into List/Object.
func ValueString(v Value) string {
	switch v.Kind {
	case VConstant:
		return v.Const.String()
	case VVariable:
		return "$" + intern.Lookup(v.VarName)
	case VList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = ValueString(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case VObject:
		return ArgumentsString(v.Object)
	default:
		return "<invalid-value>"
	}
}

// ArgumentsString canonicalizes a set of arguments: sorted by name,
// rendered as name:value pairs. Used both for directive/field argument
// identity and for nested object values.
func ArgumentsString(args []Argument) string {
	sorted := make([]Argument, len(args))
	copy(sorted, args)
	sort.Slice(sorted, func(i, j int) bool {
		return intern.Lookup(sorted[i].Name.Value) < intern.Lookup(sorted[j].Name.Value)
	})
	parts := make([]string, len(sorted))
	for i, a := range sorted {
		parts[i] = fmt.Sprintf("%s:%s", intern.Lookup(a.Name.Value), ValueString(a.Value.Value))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// DirectivesString canonicalizes a directive list (already filtered to
// user directives by the caller where relevant) for identity purposes.
func DirectivesString(directives []Directive) string {
	sorted := make([]Directive, len(directives))
	copy(sorted, directives)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name.Value < sorted[j].Name.Value
	})
	parts := make([]string, len(sorted))
	for i, d := range sorted {
		parts[i] = fmt.Sprintf("@%s%s", intern.Lookup(d.Name.Value), ArgumentsString(d.Arguments))
	}
	return strings.Join(parts, " ")
}
