package schema

import (
	"fmt"

	"github.com/viant/queryc/intern"
)

// RefKind discriminates the three shapes a TypeReference can take.
type RefKind int

const (
	// KindNamed wraps a single named type (scalar, enum, object, ...).
	KindNamed RefKind = iota
	// KindList wraps another TypeReference as a list of it.
	KindList
	// KindNonNull wraps another TypeReference, forbidding null.
	KindNonNull
)

// TypeRef is the recursive type-reference shape from spec.md §3:
// Named(type) | List(TypeReference) | NonNull(TypeReference).
//
// NonNull(NonNull(_)) is forbidden by construction: NewNonNull unwraps a
// nested NonNull rather than doubling it, matching the invariant in §3.
type TypeRef struct {
	kind  RefKind
	named intern.ID
	of    *TypeRef
}

// NewNamed builds a named type reference.
func NewNamed(name intern.ID) *TypeRef {
	return &TypeRef{kind: KindNamed, named: name}
}

// NewList wraps of in a list reference.
func NewList(of *TypeRef) *TypeRef {
	return &TypeRef{kind: KindList, of: of}
}

// NewNonNull wraps of in a non-null reference. If of is already NonNull, it
// is returned unchanged, preventing the forbidden double-wrap.
func NewNonNull(of *TypeRef) *TypeRef {
	if of != nil && of.kind == KindNonNull {
		return of
	}
	return &TypeRef{kind: KindNonNull, of: of}
}

// Kind reports which shape this reference takes.
func (t *TypeRef) Kind() RefKind { return t.kind }

// NamedType returns the wrapped named-type id. Only valid when Kind() is
// KindNamed, which callers reach by unwrapping with Nullable()/OfType().
func (t *TypeRef) NamedType() intern.ID { return t.named }

// OfType returns the inner reference for List/NonNull; nil for Named.
func (t *TypeRef) OfType() *TypeRef { return t.of }

// IsNonNull reports whether the outermost layer is NonNull.
func (t *TypeRef) IsNonNull() bool { return t.kind == KindNonNull }

// IsList reports whether, after stripping a possible outer NonNull, the
// reference is a list.
func (t *TypeRef) IsList() bool {
	n := t
	if n.kind == KindNonNull {
		n = n.of
	}
	return n != nil && n.kind == KindList
}

// Nullable strips a single outer NonNull wrapper, if present.
func (t *TypeRef) Nullable() *TypeRef {
	if t.kind == KindNonNull {
		return t.of
	}
	return t
}

// InnerNamed unwraps List/NonNull layers down to the named type id. Nested
// lists are unwrapped the same way; spec.md notes nested lists beyond two
// levels are not user-constructible, but the unwrap itself is total.
func (t *TypeRef) InnerNamed() intern.ID {
	n := t
	for n.kind != KindNamed {
		n = n.of
	}
	return n.named
}

// ListDepth counts the number of List layers, ignoring NonNull wrappers.
func (t *TypeRef) ListDepth() int {
	depth := 0
	n := t
	for {
		switch n.kind {
		case KindNonNull:
			n = n.of
		case KindList:
			depth++
			n = n.of
		default:
			return depth
		}
	}
}

// Equal compares two type references structurally.
func (t *TypeRef) Equal(other *TypeRef) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindNamed:
		return t.named == other.named
	default:
		return t.of.Equal(other.of)
	}
}

// String renders the reference in SDL-ish form, e.g. "[User!]!". This is
// the get_type_string equivalent from spec.md §4.2 and §9 Open Question 3:
// diagnostics should always render through this, never through a raw %#v.
func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.kind {
	case KindNamed:
		return intern.Lookup(t.named)
	case KindList:
		return fmt.Sprintf("[%s]", t.of.String())
	case KindNonNull:
		return fmt.Sprintf("%s!", t.of.String())
	default:
		return "<invalid>"
	}
}
