// Package identity computes the NodeIdentifier equality/hash key spec.md
// §4.8 defines: the value that determines whether two selections are
// interchangeable for dedupe purposes.
package identity

import (
	"fmt"

	"github.com/viant/queryc/intern"
	"github.com/viant/queryc/ir"
	"github.com/viant/queryc/schema"
)

// NodeIdentifier is a canonical, comparable key for a selection's identity.
// It is deliberately a plain comparable struct (not a pointer or an
// interface) so it can be used directly as a Go map key, and so that
// NodeIdentifier equality trivially implies equal hashes once run through
// Hash — spec.md §8 invariant 8.
type NodeIdentifier struct {
	kind SelectionKindTag
	key  string
}

// SelectionKindTag is an alias of ir.SelectionKind (the identical type,
// not a redeclaration), naming the kind component of a NodeIdentifier.
type SelectionKindTag = ir.SelectionKind

// Hash returns a 64-bit digest consistent with Equal: equal NodeIdentifiers
// always hash equal (spec.md §8 invariant 8). Built on ir.FastHash64
// (HighwayHash), the teacher's own hashing choice for this kind of
// structural key (grounded on T:inspector/graph/hash.go).
func (n NodeIdentifier) Hash() uint64 {
	h, err := ir.FastHash64([]byte(n.key))
	if err != nil {
		// HighwayHash only errors on a malformed key, which is a
		// programmer error in this package, not a runtime condition;
		// panicking here matches the teacher's posture of treating such
		// failures as invariant violations rather than recoverable errors.
		panic(fmt.Sprintf("identity: hash failed: %v", err))
	}
	return h
}

// Equal compares two identifiers for dedupe purposes.
func (n NodeIdentifier) Equal(other NodeIdentifier) bool {
	return n == other
}

// String renders the identifier for debugging/logging.
func (n NodeIdentifier) String() string {
	return n.key
}

// FromSelection computes the NodeIdentifier for sel, per spec.md §4.8:
//
//	ScalarField:     (alias_or_name, schema_type_of_field, canonicalized_arguments, user_directives)
//	LinkedField:     same as scalar (type is the field's type), excluding selections
//	FragmentSpread:  (fragment_name, arguments, user_directives)
//	InlineFragment:  (type_condition, user_directives)
//	Condition:       (kind, value)
func FromSelection(sel ir.Selection) NodeIdentifier {
	switch sel.Kind() {
	case ir.KindScalarField:
		f := sel.(ir.ScalarField)
		return fieldIdentifier("scalar", f.ResponseKey(), f.Type, f.Arguments, f.Directives)
	case ir.KindLinkedField:
		f := sel.(ir.LinkedField)
		return fieldIdentifier("linked", f.ResponseKey(), f.Type, f.Arguments, f.Directives)
	case ir.KindFragmentSpread:
		f := sel.(ir.FragmentSpread)
		key := fmt.Sprintf("spread|%s|%s|%s",
			intern.Lookup(f.FragmentName),
			ir.ArgumentsString(f.Arguments),
			ir.DirectivesString(ir.UserDirectives(f.Directives)))
		return NodeIdentifier{kind: ir.KindFragmentSpread, key: key}
	case ir.KindInlineFragment:
		f := sel.(ir.InlineFragment)
		key := fmt.Sprintf("inline|%s|%s",
			intern.Lookup(f.TypeCondition),
			ir.DirectivesString(ir.UserDirectives(f.Directives)))
		return NodeIdentifier{kind: ir.KindInlineFragment, key: key}
	case ir.KindCondition:
		c := sel.(ir.Condition)
		key := fmt.Sprintf("cond|%d|%v|%s", c.ConditionKind, c.Value.IsVariable, conditionValueString(c.Value))
		return NodeIdentifier{kind: ir.KindCondition, key: key}
	default:
		panic("identity: unknown selection kind")
	}
}

func conditionValueString(v ir.ConditionValue) string {
	if v.IsVariable {
		return "$" + intern.Lookup(v.Variable)
	}
	return fmt.Sprintf("%v", v.Literal)
}

func fieldIdentifier(tag string, responseKey intern.ID, typ *schema.TypeRef, args []ir.Argument, directives []ir.Directive) NodeIdentifier {
	typeStr := ""
	if typ != nil {
		typeStr = typ.String()
	}
	key := fmt.Sprintf("%s|%s|%s|%s|%s",
		tag,
		intern.Lookup(responseKey),
		typeStr,
		ir.ArgumentsString(args),
		ir.DirectivesString(ir.UserDirectives(directives)))
	kind := ir.KindScalarField
	if tag == "linked" {
		kind = ir.KindLinkedField
	}
	return NodeIdentifier{kind: kind, key: key}
}
