package build

import (
	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
	"github.com/viant/queryc/syntaxast"
)

// resolveType lowers a syntax type node into a schema.TypeRef, recording
// UnknownType for a named component the schema doesn't declare.
func (c *buildContext) resolveType(t syntaxast.TypeNode) *schema.TypeRef {
	switch t.Kind {
	case syntaxast.TypeNamed:
		name := intern.Intern(t.Name)
		if _, ok := c.b.schema.TypeByName(name); !ok {
			c.addErr(ierrorsUnknownType(t.Name, loc(c.fileKey, t.Span)))
		}
		return schema.NewNamed(name)
	case syntaxast.TypeList:
		if t.Of == nil {
			return schema.NewList(nil)
		}
		return schema.NewList(c.resolveType(*t.Of))
	case syntaxast.TypeNonNull:
		if t.Of == nil {
			return schema.NewNonNull(nil)
		}
		return schema.NewNonNull(c.resolveType(*t.Of))
	default:
		return nil
	}
}

// coerceValue lowers a syntax value against an (optional) expected type,
// tracking variable usage against that expected type (spec.md §4.3
// "Variable usage tracking").
func (c *buildContext) coerceValue(v syntaxast.Value, expected *schema.TypeRef) ir.Value {
	if v.Kind == syntaxast.ValVariable {
		name := intern.Intern(v.VarName)
		c.recordVariableUse(name, expected, loc(c.fileKey, v.Span))
		return ir.Value{Kind: ir.VVariable, VarName: name, VarType: expected}
	}
	if v.Kind == syntaxast.ValList {
		inner := expected
		if expected != nil && expected.IsList() {
			inner = expected.Nullable().OfType()
		}
		elems := make([]ir.Value, len(v.List))
		for i, e := range v.List {
			elems[i] = c.coerceValue(e, inner)
		}
		return ir.Value{Kind: ir.VList, List: elems}
	}
	if v.Kind == syntaxast.ValObject {
		return ir.Value{Kind: ir.VObject, Object: c.coerceObjectFields(v.Object, expected)}
	}
	return ir.Value{Kind: ir.VConstant, Const: c.coerceConstant(v)}
}

func (c *buildContext) coerceConstant(v syntaxast.Value) ir.Constant {
	switch v.Kind {
	case syntaxast.ValInt:
		return ir.Constant{Kind: ir.CInt, IntVal: v.IntVal}
	case syntaxast.ValFloat:
		return ir.Constant{Kind: ir.CFloat, FltVal: v.FltVal}
	case syntaxast.ValString:
		return ir.Constant{Kind: ir.CString, StrVal: v.StrVal}
	case syntaxast.ValBool:
		return ir.Constant{Kind: ir.CBool, BoolVal: v.BoolVal}
	case syntaxast.ValNull:
		return ir.Constant{Kind: ir.CNull}
	case syntaxast.ValEnum:
		return ir.Constant{Kind: ir.CEnum, StrVal: v.EnumVal}
	case syntaxast.ValList:
		elems := make([]ir.Constant, len(v.List))
		for i, e := range v.List {
			elems[i] = c.coerceConstant(e)
		}
		return ir.Constant{Kind: ir.CList, List: elems}
	case syntaxast.ValObject:
		fields := make([]ir.ObjectField, len(v.Object))
		for i, f := range v.Object {
			fields[i] = ir.ObjectField{Name: intern.Intern(f.Name), Value: c.coerceConstant(f.Value)}
		}
		return ir.Constant{Kind: ir.CObject, Object: fields}
	default:
		return ir.Constant{Kind: ir.CNull}
	}
}

// coerceObjectFields lowers an object literal's fields, validating against
// expected's declared input fields when expected names an InputObject type
// (spec.md §4.3 UnknownArgument/DuplicateInputField/MissingRequiredFields
// applied to nested input objects, not just top-level field arguments).
func (c *buildContext) coerceObjectFields(fields []syntaxast.ObjectField, expected *schema.TypeRef) []ir.Argument {
	var inputType *schema.Type
	if expected != nil {
		if t, ok := c.b.schema.TypeByName(expected.InnerNamed()); ok && t.Kind == schema.InputObject {
			inputType = t
		}
	}
	seen := map[intern.ID]bool{}
	out := make([]ir.Argument, 0, len(fields))
	for _, f := range fields {
		name := intern.Intern(f.Name)
		nameLoc := loc(c.fileKey, f.NameSpan)
		if seen[name] {
			c.addErr(ierrorsDuplicateInputField(f.Name, nameLoc))
			continue
		}
		seen[name] = true
		var fieldType *schema.TypeRef
		if inputType != nil {
			if fd, ok := inputType.FieldByName(name); ok {
				fieldType = fd.Type
			} else {
				c.addErr(ierrorsUnknownArgument(f.Name, nameLoc))
			}
		}
		out = append(out, ir.Argument{
			Name:  ir.At(name, nameLoc),
			Value: ir.At(c.coerceValue(f.Value, fieldType), loc(c.fileKey, f.Value.Span)),
		})
	}
	if inputType != nil {
		for _, fd := range inputType.OrderedFields() {
			if fd.Type != nil && fd.Type.IsNonNull() && !seen[fd.Name] {
				c.addErr(ierrorsMissingRequiredFields(intern.Lookup(inputType.Name), intern.Lookup(fd.Name), loc(c.fileKey, syntaxast.Span{})))
			}
		}
	}
	return out
}

// buildArguments lowers a syntax argument list against declared argument
// defs, validating names, duplicate input fields, and required-ness.
func (c *buildContext) buildArguments(args []syntaxast.Argument, declared []*schema.ArgumentDef, where string) []ir.Argument {
	byName := map[intern.ID]*schema.ArgumentDef{}
	for _, d := range declared {
		byName[d.Name] = d
	}
	seen := map[intern.ID]bool{}
	out := make([]ir.Argument, 0, len(args))
	for _, a := range args {
		name := intern.Intern(a.Name)
		nameLoc := loc(c.fileKey, a.NameSpan)
		if seen[name] {
			c.addErr(ierrorsDuplicateInputField(a.Name, nameLoc))
			continue
		}
		seen[name] = true
		def, ok := byName[name]
		if !ok {
			c.addErr(ierrorsUnknownArgumentAt(a.Name, where, nameLoc))
		}
		var expected *schema.TypeRef
		if def != nil {
			expected = def.Type
		}
		out = append(out, ir.Argument{
			Name:  ir.At(name, nameLoc),
			Value: ir.At(c.coerceValue(a.Value, expected), loc(c.fileKey, a.Value.Span)),
		})
	}
	for _, d := range declared {
		if d.Type != nil && d.Type.IsNonNull() && d.DefaultValue == nil && !seen[d.Name] {
			c.addErr(ierrorsMissingRequiredFields(where, intern.Lookup(d.Name), loc(c.fileKey, syntaxast.Span{})))
		}
	}
	return out
}
